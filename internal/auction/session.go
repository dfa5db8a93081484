// Package auction implements the live bidding session for a circle's round:
// an in-process hub of per-circle rooms, a single-owner countdown, and a
// follower view that applies broadcast events under a monotonic guard.
//
// The room that started the countdown is the one authoritative writer; every
// other participant is a read-only replica fed from the event stream.
package auction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the state of one bidding session.
type Status string

const (
	// StatusWaiting: room open, bidding not started.
	StatusWaiting Status = "WAITING"
	// StatusLive: countdown running, bids accepted.
	StatusLive Status = "LIVE"
	// StatusFinished: countdown reached zero.
	StatusFinished Status = "FINISHED"
)

// rank orders statuses for the follower's monotonic guard.
func (s Status) rank() int {
	switch s {
	case StatusWaiting:
		return 0
	case StatusLive:
		return 1
	case StatusFinished:
		return 2
	default:
		return -1
	}
}

// Bid is one accepted bid submission.
type Bid struct {
	MemberID string          `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
	At       int64           `json:"at"`
}

// Session is the replicated state of one live bidding round. It is transient:
// created when an admin opens a room, cleared when the outcome is recorded or
// the room is closed, never persisted.
type Session struct {
	CircleID    string          `json:"circleId"`
	RoundNumber int             `json:"roundNumber"`
	OwnerID     string          `json:"ownerId"`
	Status      Status          `json:"status"`
	TimeLeft    int             `json:"timeLeft"`
	HighestBid  decimal.Decimal `json:"highestBid"`
	WinnerID    string          `json:"winnerId"`
	MinBid      decimal.Decimal `json:"minBid"`
	BidStep     decimal.Decimal `json:"bidStep"`

	// BidHistory is newest-first.
	BidHistory []Bid `json:"bidHistory"`
}

// EventType identifies a broadcast message.
type EventType string

const (
	// EventUpdate is a full-state snapshot: room opened, or the reply a
	// late joiner receives on subscribe.
	EventUpdate EventType = "AUCTION_UPDATE"
	// EventNewBid announces an accepted bid.
	EventNewBid EventType = "NEW_BID"
	// EventTimerSync is the owner's periodic countdown tick.
	EventTimerSync EventType = "TIMER_SYNC"
)

// Event is one broadcast message. Every event carries the full session
// snapshot; followers reconcile via the snapshot rather than diffs, which is
// what makes the at-least-once, unordered channel safe to consume.
type Event struct {
	Type    EventType `json:"type"`
	Session Session   `json:"session"`
}

func snapshot(s *Session) Session {
	out := *s
	out.BidHistory = make([]Bid, len(s.BidHistory))
	copy(out.BidHistory, s.BidHistory)
	return out
}

// Follower is a client-side replica of a session. Apply enforces the
// monotonic guard: status never regresses, FINISHED is terminal, and a known
// high bid is never lowered by a stale snapshot.
type Follower struct {
	session Session
	primed  bool
}

// Apply merges a broadcast event into the replica, returning true if it was
// applied and false if it was rejected as stale.
func (f *Follower) Apply(ev Event) bool {
	s := ev.Session
	if !f.primed {
		f.session = s
		f.primed = true
		return true
	}
	cur := &f.session
	if s.Status.rank() < cur.Status.rank() {
		return false
	}
	if cur.Status == StatusFinished && s.Status != StatusFinished {
		return false
	}
	if s.HighestBid.LessThan(cur.HighestBid) {
		return false
	}
	f.session = s
	return true
}

// Session returns the replica's current view.
func (f *Follower) Session() Session { return f.session }

// Primed reports whether any event has been applied yet.
func (f *Follower) Primed() bool { return f.primed }

func now() int64 { return time.Now().Unix() }
