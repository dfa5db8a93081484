package models

import "github.com/shopspring/decimal"

// CircleType selects how the winning bid (the "interest") is charged.
type CircleType string

const (
	// DokHak ("ดอกหัก", deduct-up-front): the winning bid is deducted from
	// what still-waiting members owe in that round.
	DokHak CircleType = "DOK_HAK"
	// DokTam ("ดอกตาม", pay-with-interest): the winning bid is added as a
	// recurring surcharge on members who have already received the pot.
	DokTam CircleType = "DOK_TAM"
)

// BiddingType selects how each round's receiver is decided.
type BiddingType string

const (
	// BiddingAuction runs a live English auction each round.
	BiddingAuction BiddingType = "AUCTION"
	// BiddingFixed ("ladder") pays out in slot order with a predetermined
	// per-slot contribution.
	BiddingFixed BiddingType = "FIXED"
)

// CircleStatus is the lifecycle state of a circle.
type CircleStatus string

const (
	// CircleInitializing: being assembled, not yet started.
	CircleInitializing CircleStatus = "INITIALIZING"
	// CircleSetupComplete: started through the setup flow and running.
	CircleSetupComplete CircleStatus = "SETUP_COMPLETE"
	// CircleActive: running; distinguished from SETUP_COMPLETE only by how
	// the circle originated. Both are in-play states.
	CircleActive CircleStatus = "ACTIVE"
	// CircleCompleted: archived, terminal.
	CircleCompleted CircleStatus = "COMPLETED"
)

// Running reports whether the status is one of the in-play states.
func (s CircleStatus) Running() bool {
	return s == CircleSetupComplete || s == CircleActive
}

// Period is the collection cadence.
type Period string

const (
	PeriodDaily   Period = "DAILY"
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
)

// Circle represents one rotating-savings group.
//
// Invariants: TotalSlots >= 2; exactly one member occupies SlotNumber 1 (the
// founder, "Thao"), who always receives round 1 and never pays.
type Circle struct {
	// ID is the unique identifier for the circle (UUID format).
	ID string `json:"id"`

	// Name is the display name (e.g., "วงแชร์บ้านสวน 2").
	Name string `json:"name"`

	// OwnerID is the user who administers this circle.
	OwnerID string `json:"ownerId"`

	// Principal is the base contribution per non-founder slot per round.
	Principal decimal.Decimal `json:"principal"`

	// TotalSlots is the number of participating positions, founder included.
	TotalSlots int `json:"totalSlots"`

	Type        CircleType   `json:"type"`
	BiddingType BiddingType  `json:"biddingType"`
	Status      CircleStatus `json:"status"`

	// MinBid and BidStep parameterize the auction (AUCTION mode only).
	MinBid  decimal.Decimal `json:"minBid"`
	BidStep decimal.Decimal `json:"bidStep"`

	// AdminFee and FineRate are per-period surcharges.
	AdminFee decimal.Decimal `json:"adminFee"`
	FineRate decimal.Decimal `json:"fineRate"`

	// Period is the collection cadence; PeriodInterval is the repeat
	// multiplier for daily circles (e.g., every 3 days).
	Period         Period `json:"period"`
	PeriodInterval int    `json:"periodInterval"`

	// StartDate and NextDueDate are Unix timestamps.
	StartDate   int64 `json:"startDate"`
	NextDueDate int64 `json:"nextDueDate"`

	// PaymentWindowStart/End is an advisory time-of-day collection window
	// ("HH:MM"); nothing enforces it.
	PaymentWindowStart string `json:"paymentWindowStart,omitempty"`
	PaymentWindowEnd   string `json:"paymentWindowEnd,omitempty"`

	// Members is ordered by slot number.
	Members []CircleMember `json:"members"`

	// Rounds is ordered by round number. Rounds are created lazily, one
	// ahead of the current round.
	Rounds []ShareRound `json:"rounds"`

	// CreatedAt is the Unix timestamp when the circle was created.
	CreatedAt int64 `json:"createdAt"`
}

// MemberBySlot returns the member occupying the given slot, or nil.
func (c *Circle) MemberBySlot(slot int) *CircleMember {
	for i := range c.Members {
		if c.Members[i].SlotNumber == slot {
			return &c.Members[i]
		}
	}
	return nil
}

// MemberByID returns the member with the given member ID, or nil.
func (c *Circle) MemberByID(memberID string) *CircleMember {
	for i := range c.Members {
		if c.Members[i].MemberID == memberID {
			return &c.Members[i]
		}
	}
	return nil
}

// Round returns the round with the given round number, or nil.
func (c *Circle) Round(number int) *ShareRound {
	for i := range c.Rounds {
		if c.Rounds[i].RoundNumber == number {
			return &c.Rounds[i]
		}
	}
	return nil
}
