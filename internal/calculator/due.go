// Package calculator implements the pure obligation and ordering rules for
// rotating savings circles: who owes what in a given round, when a round is
// collectible, and the canonical payout order of a circle's slots.
//
// Nothing here touches storage or transport; callers pass fully-loaded
// aggregates and receive values back.
package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/models"
)

// Due returns the amount the member owes for the round, zero if none.
//
// The founder (slot 1) never pays. A lump-sum ("pid ton") slot pays its
// whole remaining obligation in round 1 and nothing after. In FIXED mode the
// round's receiver (slot == round number) is exempt and everyone else owes
// their fixed amount. In AUCTION mode the winner is exempt; members who have
// already received the pot owe principal plus their own winning bid under
// DOK_TAM, bare principal under DOK_HAK; members still waiting owe principal
// under DOK_TAM, or principal discounted by this round's winning bid under
// DOK_HAK.
func Due(circle *models.Circle, round *models.ShareRound, member *models.CircleMember) decimal.Decimal {
	if member.IsFounder() {
		return decimal.Zero
	}

	if member.IsPidTon() {
		if round.RoundNumber == 1 {
			return member.PidTonAmount
		}
		return decimal.Zero
	}

	if circle.BiddingType == models.BiddingFixed {
		if member.SlotNumber == round.RoundNumber {
			return decimal.Zero
		}
		return member.FixedDueAmount
	}

	// AUCTION
	if member.MemberID != "" && member.MemberID == round.WinnerID {
		return decimal.Zero
	}
	if member.Status == models.MemberDead {
		if circle.Type == models.DokTam {
			return circle.Principal.Add(member.BidAmount)
		}
		return circle.Principal
	}
	if circle.Type == models.DokTam {
		return circle.Principal
	}
	// DOK_HAK: this round's winning bid is deducted from what waiting
	// members owe, floored at zero.
	due := circle.Principal.Sub(round.BidAmount)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// Collectible reports whether the round may be collected today.
//
// Auction rounds must wait for the bid to be finalized (COLLECTING); fixed
// rounds have a predetermined amount and can be collected proactively once
// their scheduled date arrives.
func Collectible(circle *models.Circle, round *models.ShareRound, today time.Time) bool {
	if circle.BiddingType == models.BiddingAuction {
		return round.Status == models.RoundCollecting
	}
	if round.Status != models.RoundOpen && round.Status != models.RoundCollecting {
		return false
	}
	return !dayOf(time.Unix(round.Date, 0)).After(dayOf(today))
}

// ExpectedTotal sums Due over all non-founder members, excluding members who
// already have a PAID or WAITING_APPROVAL transaction for the round. The
// settled set is keyed by member ID.
func ExpectedTotal(circle *models.Circle, round *models.ShareRound, settled map[string]bool) decimal.Decimal {
	total := decimal.Zero
	for i := range circle.Members {
		m := &circle.Members[i]
		if m.IsFounder() || settled[m.MemberID] {
			continue
		}
		total = total.Add(Due(circle, round, m))
	}
	return total
}

// Overdue returns the member's simplified outstanding amount for a round
// whose scheduled date has passed, and how many whole days late it is.
// Returns zero/0 when the round is not overdue or the member owes nothing.
//
// The simplified amount is the fixed amount (FIXED) or bare principal
// (AUCTION), zeroed for the founder, the round's receiver, and a lump-sum
// slot after round 1.
func Overdue(circle *models.Circle, round *models.ShareRound, member *models.CircleMember, today time.Time) (decimal.Decimal, int) {
	if round.Status != models.RoundOpen && round.Status != models.RoundCollecting {
		return decimal.Zero, 0
	}
	roundDay := dayOf(time.Unix(round.Date, 0))
	todayDay := dayOf(today)
	if !roundDay.Before(todayDay) {
		return decimal.Zero, 0
	}
	// Count calendar days rather than dividing elapsed hours, so a DST
	// transition inside the span cannot shave a day off.
	daysLate := 0
	for d := roundDay; d.Before(todayDay); d = d.AddDate(0, 0, 1) {
		daysLate++
	}

	amount := simplifiedDue(circle, round, member)
	if amount.IsZero() {
		return decimal.Zero, 0
	}
	return amount, daysLate
}

func simplifiedDue(circle *models.Circle, round *models.ShareRound, member *models.CircleMember) decimal.Decimal {
	if member.IsFounder() {
		return decimal.Zero
	}
	if member.IsPidTon() && round.RoundNumber > 1 {
		return decimal.Zero
	}
	if circle.BiddingType == models.BiddingFixed {
		if member.SlotNumber == round.RoundNumber {
			return decimal.Zero
		}
		return member.FixedDueAmount
	}
	if member.MemberID != "" && member.MemberID == round.WinnerID {
		return decimal.Zero
	}
	return circle.Principal
}

// dayOf truncates a time to local midnight.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
