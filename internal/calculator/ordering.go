package calculator

import (
	"sort"
	"strconv"

	"github.com/teeraphan/wongshare/internal/models"
)

// Slot is one row of the canonical payout order: a real member seat, or a
// placeholder for a declared-but-unfilled slot number.
type Slot struct {
	Member models.CircleMember

	// Empty marks a synthesized placeholder (declared TotalSlots exceeds
	// the actual member count).
	Empty bool
}

// SortSlots returns the circle's slots (real plus placeholders up to
// TotalSlots) in canonical payout order:
//
//  1. slot 1 (founder) first,
//  2. a lump-sum slot always last among ALIVE slots,
//  3. DEAD (has received the pot) before ALIVE (has not),
//  4. DEAD slots by wonRound ascending,
//  5. remaining ALIVE slots by slot number ascending.
//
// The sort is stable: the same member set always yields the same order.
func SortSlots(circle *models.Circle) []Slot {
	slots := make([]Slot, 0, circle.TotalSlots)
	taken := make(map[int]bool, len(circle.Members))
	for _, m := range circle.Members {
		slots = append(slots, Slot{Member: m})
		taken[m.SlotNumber] = true
	}
	for n := 1; n <= circle.TotalSlots; n++ {
		if !taken[n] {
			slots = append(slots, Slot{
				Member: models.CircleMember{
					CircleID:   circle.ID,
					SlotNumber: n,
					Status:     models.MemberAlive,
				},
				Empty: true,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		a, b := rankOf(&slots[i].Member), rankOf(&slots[j].Member)
		if a.class != b.class {
			return a.class < b.class
		}
		return a.key < b.key
	})
	return slots
}

// rank places a slot into one of four ordered classes with an in-class key.
type rank struct {
	class int
	key   int
}

func rankOf(m *models.CircleMember) rank {
	switch {
	case m.IsFounder():
		return rank{0, 0}
	case m.Status == models.MemberDead:
		return rank{1, m.WonRound}
	case m.IsPidTon():
		return rank{3, m.SlotNumber}
	default:
		return rank{2, m.SlotNumber}
	}
}

// DisplayDraw returns the draw label shown for a slot: in FIXED mode the raw
// slot number; in AUCTION mode the round the member won, the final slot
// number for a lump-sum slot, and nothing for members still waiting.
func DisplayDraw(circle *models.Circle, slot Slot) string {
	m := &slot.Member
	if circle.BiddingType == models.BiddingFixed {
		return strconv.Itoa(m.SlotNumber)
	}
	switch {
	case m.Status == models.MemberDead:
		return strconv.Itoa(m.WonRound)
	case m.IsPidTon():
		return strconv.Itoa(circle.TotalSlots)
	default:
		return ""
	}
}
