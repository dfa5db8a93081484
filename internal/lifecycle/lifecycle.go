// Package lifecycle implements the circle state machine: assembling,
// starting, recording bid outcomes, completing rounds, and archiving. All
// functions validate first and mutate the in-memory aggregate only on
// success; persistence is the caller's concern.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/models"
)

var (
	ErrNotInitializing  = errors.New("circle has already started")
	ErrNotRunning       = errors.New("circle is not running")
	ErrRosterIncomplete = errors.New("member count does not match total slots")
	ErrFounderMissing   = errors.New("slot 1 (founder) is not assigned")
	ErrRoundNotFound    = errors.New("round not found")
	ErrRoundNotOpen     = errors.New("round is not open for a bid")
	ErrWinnerUnknown    = errors.New("winner is not a member of this circle")
	ErrAlreadyWon       = errors.New("member has already received the pot")
)

// Validate checks the structural invariants of a circle before it is
// created or started: at least two slots, unique slot numbers within range,
// a founder on slot 1, and at most one lump-sum slot, which must occupy the
// highest assigned slot number.
func Validate(c *models.Circle) error {
	if c.TotalSlots < 2 {
		return fmt.Errorf("total slots must be at least 2, got %d", c.TotalSlots)
	}
	seen := make(map[int]bool, len(c.Members))
	pidTonSlot := 0
	maxSlot := 0
	for i := range c.Members {
		m := &c.Members[i]
		if m.SlotNumber < 1 || m.SlotNumber > c.TotalSlots {
			return fmt.Errorf("slot %d out of range 1..%d", m.SlotNumber, c.TotalSlots)
		}
		if seen[m.SlotNumber] {
			return fmt.Errorf("slot %d assigned twice", m.SlotNumber)
		}
		seen[m.SlotNumber] = true
		if m.SlotNumber > maxSlot {
			maxSlot = m.SlotNumber
		}
		if m.IsPidTon() {
			if pidTonSlot != 0 {
				return fmt.Errorf("more than one lump-sum slot (%d and %d)", pidTonSlot, m.SlotNumber)
			}
			pidTonSlot = m.SlotNumber
		}
	}
	if len(c.Members) > 0 && !seen[1] {
		return ErrFounderMissing
	}
	if pidTonSlot != 0 && pidTonSlot != maxSlot {
		return fmt.Errorf("lump-sum slot must be the highest slot, got %d of %d", pidTonSlot, maxSlot)
	}
	return nil
}

// New normalizes a freshly assembled circle: status INITIALIZING, a single
// OPEN round 1 dated at the start date, daily interval defaulted to 1.
func New(c *models.Circle) error {
	if err := Validate(c); err != nil {
		return err
	}
	c.Status = models.CircleInitializing
	if c.PeriodInterval < 1 {
		c.PeriodInterval = 1
	}
	if c.NextDueDate == 0 {
		c.NextDueDate = c.StartDate
	}
	if c.Round(1) == nil {
		c.Rounds = append(c.Rounds, models.ShareRound{
			CircleID:    c.ID,
			RoundNumber: 1,
			Date:        c.StartDate,
			Status:      models.RoundOpen,
		})
	}
	return nil
}

// Start moves a fully enrolled circle from INITIALIZING to SETUP_COMPLETE.
//
// The founder's slot is marked DEAD with wonRound 1 and bid 0; round 1
// starts COLLECTING with the founder as winner and a pot of
// totalSlots × principal; round 2 is appended OPEN, dated one period after
// the start date. An under-enrolled roster is rejected before any mutation.
func Start(c *models.Circle) error {
	if c.Status != models.CircleInitializing {
		return ErrNotInitializing
	}
	if len(c.Members) < c.TotalSlots {
		return fmt.Errorf("%w: have %d of %d", ErrRosterIncomplete, len(c.Members), c.TotalSlots)
	}
	if err := Validate(c); err != nil {
		return err
	}
	founder := c.MemberBySlot(1)
	if founder == nil {
		return ErrFounderMissing
	}

	founder.Status = models.MemberDead
	founder.WonRound = 1
	founder.BidAmount = decimal.Zero

	round := c.Round(1)
	if round == nil {
		c.Rounds = append(c.Rounds, models.ShareRound{
			CircleID:    c.ID,
			RoundNumber: 1,
			Date:        c.StartDate,
		})
		round = c.Round(1)
	}
	round.Status = models.RoundCollecting
	round.WinnerID = founder.MemberID
	round.BidAmount = decimal.Zero
	round.TotalPot = c.Principal.Mul(decimal.NewFromInt(int64(c.TotalSlots)))

	if c.Round(2) == nil && c.TotalSlots >= 2 {
		next := NextDate(time.Unix(c.StartDate, 0), c.Period, c.PeriodInterval)
		c.Rounds = append(c.Rounds, models.ShareRound{
			CircleID:    c.ID,
			RoundNumber: 2,
			Date:        next.Unix(),
			Status:      models.RoundOpen,
		})
		c.NextDueDate = next.Unix()
	}

	c.Status = models.CircleSetupComplete
	return nil
}

// RecordBid applies an auction outcome to a running circle: the round starts
// COLLECTING with the given winner, bid, and gross pot; the winner's slot is
// marked DEAD; the next due date advances one period; and unless this was
// the final round, the next round is appended OPEN.
//
// The round stays COLLECTING until CompleteRound is called after the pot has
// actually been disbursed.
func RecordBid(c *models.Circle, roundNumber int, winnerID string, bid, pot decimal.Decimal) error {
	if !c.Status.Running() {
		return ErrNotRunning
	}
	round := c.Round(roundNumber)
	if round == nil {
		return fmt.Errorf("%w: round %d", ErrRoundNotFound, roundNumber)
	}
	if round.Status == models.RoundCompleted {
		return fmt.Errorf("%w: round %d already completed", ErrRoundNotOpen, roundNumber)
	}
	winner := c.MemberByID(winnerID)
	if winner == nil {
		return fmt.Errorf("%w: %s", ErrWinnerUnknown, winnerID)
	}
	if winner.Status == models.MemberDead {
		return fmt.Errorf("%w: %s won round %d", ErrAlreadyWon, winnerID, winner.WonRound)
	}

	round.Status = models.RoundCollecting
	round.WinnerID = winnerID
	round.BidAmount = bid
	round.TotalPot = pot

	winner.Status = models.MemberDead
	winner.BidAmount = bid
	winner.WonRound = roundNumber

	c.NextDueDate = NextDate(time.Unix(c.NextDueDate, 0), c.Period, c.PeriodInterval).Unix()

	if roundNumber < c.TotalSlots && c.Round(roundNumber+1) == nil {
		c.Rounds = append(c.Rounds, models.ShareRound{
			CircleID:    c.ID,
			RoundNumber: roundNumber + 1,
			Date:        NextDate(time.Unix(round.Date, 0), c.Period, c.PeriodInterval).Unix(),
			Status:      models.RoundOpen,
		})
	}
	return nil
}

// CompleteRound marks a COLLECTING round COMPLETED once the payout has been
// recorded, decoupling "winner decided" from "money disbursed".
func CompleteRound(c *models.Circle, roundNumber int) error {
	round := c.Round(roundNumber)
	if round == nil {
		return fmt.Errorf("%w: round %d", ErrRoundNotFound, roundNumber)
	}
	if round.Status != models.RoundCollecting {
		return fmt.Errorf("%w: round %d is %s", ErrRoundNotOpen, roundNumber, round.Status)
	}
	round.Status = models.RoundCompleted
	return nil
}

// Close archives a circle. Explicit administrative action only: circles stay
// in-play after the final round completes until an operator archives them,
// leaving room for trailing cleanup. COMPLETED is terminal.
func Close(c *models.Circle) {
	c.Status = models.CircleCompleted
}

// NextDate advances a date by one collection period: interval days for daily
// circles, seven days for weekly, one calendar month for monthly.
func NextDate(t time.Time, period models.Period, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch period {
	case models.PeriodDaily:
		return t.AddDate(0, 0, interval)
	case models.PeriodWeekly:
		return t.AddDate(0, 0, 7)
	case models.PeriodMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}
