package models

import "github.com/shopspring/decimal"

// RoundStatus is the state of one collection cycle.
type RoundStatus string

const (
	// RoundOpen: scheduled, receiver not yet decided (AUCTION) or not yet
	// collected (FIXED).
	RoundOpen RoundStatus = "OPEN"
	// RoundCollecting: receiver decided, contributions being gathered.
	RoundCollecting RoundStatus = "COLLECTING"
	// RoundCompleted: pot disbursed.
	RoundCompleted RoundStatus = "COMPLETED"
)

// ShareRound is one period's draw/collection cycle.
//
// Round N's winner must be the member whose slot is due to receive the pot
// in round N: the auction outcome in AUCTION mode, slot N in FIXED mode.
type ShareRound struct {
	// ID is the unique identifier for the round (UUID format).
	ID string `json:"id"`

	// CircleID is the circle this round belongs to.
	CircleID string `json:"circleId"`

	// RoundNumber is 1..TotalSlots, monotonic.
	RoundNumber int `json:"roundNumber"`

	// Date is the scheduled collection date (Unix timestamp).
	Date int64 `json:"date"`

	Status RoundStatus `json:"status"`

	// WinnerID is the member who received the pot this round.
	WinnerID string `json:"winnerId"`

	// BidAmount is the winning bid (AUCTION mode).
	BidAmount decimal.Decimal `json:"bidAmount"`

	// TotalPot is the gross amount distributed this round.
	TotalPot decimal.Decimal `json:"totalPot"`
}
