// Package verify checks uploaded payment slips. The production deployment
// points this at a bank slip-verification API; the offline verifier stands in
// wherever no credentials are configured.
package verify

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Result is what a verifier extracted from a slip image.
type Result struct {
	IsValid   bool
	Sender    string
	Receiver  string
	Amount    decimal.Decimal
	TxID      string
	Timestamp int64
	Message   string
}

// Verifier validates a slip image against the amount the payer claims.
type Verifier interface {
	Verify(ctx context.Context, slip []byte, claimed decimal.Decimal) (Result, error)
}

// Offline is a verifier that never calls out. It accepts any non-empty slip
// at the claimed amount, so approval stays a human decision.
type Offline struct {
	rng *rand.Rand
}

// NewOffline returns an offline verifier.
func NewOffline() *Offline {
	return &Offline{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (o *Offline) Verify(_ context.Context, slip []byte, claimed decimal.Decimal) (Result, error) {
	if len(slip) == 0 {
		return Result{Message: "empty slip"}, nil
	}
	return Result{
		IsValid:   true,
		Amount:    claimed,
		TxID:      fmt.Sprintf("OFFLINE-%010d", o.rng.Int63n(1e10)),
		Timestamp: time.Now().Unix(),
		Message:   "offline verification, amount taken from submission",
	}, nil
}
