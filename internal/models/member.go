package models

import "github.com/shopspring/decimal"

// MemberStatus tracks whether a slot has received the pot yet.
type MemberStatus string

const (
	// MemberAlive: has not yet received the pot.
	MemberAlive MemberStatus = "ALIVE"
	// MemberDead: has already received the pot.
	MemberDead MemberStatus = "DEAD"
)

// CircleMember is one participant's seat in one circle.
//
// Slot 1 is reserved for the founder and is exempt from payment. At most one
// slot may carry a PidTonAmount, and by convention it occupies the highest
// slot number.
type CircleMember struct {
	// ID is the unique identifier for this seat (UUID format).
	ID string `json:"id"`

	// CircleID is the circle this seat belongs to.
	CircleID string `json:"circleId"`

	// MemberID references the person occupying the seat (a User ID, or the
	// founder/admin).
	MemberID string `json:"memberId"`

	// DisplayName is a denormalized name for listings; the authoritative
	// profile lives with the identity collaborator.
	DisplayName string `json:"displayName"`

	// SlotNumber is 1..TotalSlots, unique within a circle. It expresses
	// draw/payout position, not necessarily chronological order.
	SlotNumber int `json:"slotNumber"`

	Status MemberStatus `json:"status"`

	// WonRound is the round in which this slot received the pot (0 if it
	// has not).
	WonRound int `json:"wonRound"`

	// BidAmount is the winning bid / interest amount for the round this
	// slot won (AUCTION mode).
	BidAmount decimal.Decimal `json:"bidAmount"`

	// FixedDueAmount is this slot's per-round contribution (FIXED mode).
	FixedDueAmount decimal.Decimal `json:"fixedDueAmount"`

	// PidTonAmount, when positive, marks a lump-sum close ("ปิดต้น"): the
	// slot pre-pays its full remaining obligation in round 1 and owes
	// nothing thereafter.
	PidTonAmount decimal.Decimal `json:"pidTonAmount"`

	// Note is a free-text annotation.
	Note string `json:"note,omitempty"`
}

// IsFounder reports whether this is the slot-1 founder ("Thao") seat.
func (m *CircleMember) IsFounder() bool { return m.SlotNumber == 1 }

// IsPidTon reports whether this seat pre-paid via lump-sum close.
func (m *CircleMember) IsPidTon() bool { return m.PidTonAmount.IsPositive() }
