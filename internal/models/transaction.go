package models

import "github.com/shopspring/decimal"

// TransactionStatus is the approval state of a contribution payment.
type TransactionStatus string

const (
	TransactionWaitingApproval TransactionStatus = "WAITING_APPROVAL"
	TransactionPaid            TransactionStatus = "PAID"
	TransactionRejected        TransactionStatus = "REJECTED"
)

// Transaction is one payment event: a member's contribution submission for a
// circle+round. The core computes ExpectedAmount; approval and persistence
// belong to the admin flow.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// CircleID and RoundNumber locate the collection cycle.
	CircleID    string `json:"circleId"`
	RoundNumber int    `json:"roundNumber"`

	// MemberID is the paying member.
	MemberID string `json:"memberId"`

	// ExpectedAmount is what the obligation calculator said was due.
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`

	// PaidAmount is what the member actually submitted.
	PaidAmount decimal.Decimal `json:"paidAmount"`

	Status TransactionStatus `json:"status"`

	// SlipURL references the uploaded payment-slip image, if any.
	SlipURL string `json:"slipUrl,omitempty"`

	// IsFine marks a late-payment fine rather than a base contribution.
	IsFine bool `json:"isFine"`

	// IsClosingBalance marks a closing-balance settlement submitted when a
	// circle is wound down.
	IsClosingBalance bool `json:"isClosingBalance"`

	// Note is a free-text annotation.
	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the payment was submitted.
	CreatedAt int64 `json:"createdAt"`
}

// Payout is one pot disbursement to a round's winner.
type Payout struct {
	// ID is the unique identifier for the payout (UUID format).
	ID string `json:"id"`

	CircleID    string `json:"circleId"`
	RoundNumber int    `json:"roundNumber"`

	// MemberID is the receiving member.
	MemberID string `json:"memberId"`

	// Amount is the net amount disbursed.
	Amount decimal.Decimal `json:"amount"`

	// SlipURL references the transfer-slip image, if any.
	SlipURL string `json:"slipUrl,omitempty"`

	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the payout was recorded.
	CreatedAt int64 `json:"createdAt"`
}
