package auction

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrRoomExists   = errors.New("a bidding room is already open for this circle")
	ErrNoRoom       = errors.New("no bidding room open for this circle")
	ErrNotWaiting   = errors.New("bidding has already started")
	ErrNotOwner     = errors.New("only the room owner controls the countdown")
	ErrSessionEnded = errors.New("bidding session has finished")
)

const (
	// defaultCountdown is the initial countdown, in ticks.
	defaultCountdown = 60
	// bidResetTicks is what the countdown resets to on an accepted bid.
	bidResetTicks = 60
)

// Config tunes the hub's timing. The zero value gives production behavior:
// one-second ticks, 60-tick countdown.
type Config struct {
	TickInterval time.Duration
	Countdown    int
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.Countdown <= 0 {
		c.Countdown = defaultCountdown
	}
	return c
}

// Hub holds the live bidding rooms, keyed by circle ID. Rooms are ephemeral
// per round; the key persists for the circle's lifetime.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*Room
	cfg   Config
}

// NewHub creates an empty hub.
func NewHub(cfg Config) *Hub {
	return &Hub{
		rooms: make(map[string]*Room),
		cfg:   cfg.withDefaults(),
	}
}

// Open creates a WAITING room for the circle's round, owned by the admin who
// opened it. A circle can host one room at a time; an existing unfinished
// room is an error, a finished one is replaced.
func (h *Hub) Open(circleID string, roundNumber int, ownerID string, minBid, bidStep decimal.Decimal) (*Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.rooms[circleID]; ok {
		if existing.Snapshot().Status != StatusFinished {
			return nil, ErrRoomExists
		}
		existing.shutdown()
	}
	r := &Room{
		hub: h,
		session: Session{
			CircleID:    circleID,
			RoundNumber: roundNumber,
			OwnerID:     ownerID,
			Status:      StatusWaiting,
			TimeLeft:    h.cfg.Countdown,
			MinBid:      minBid,
			BidStep:     bidStep,
		},
		subs: make(map[chan Event]struct{}),
	}
	h.rooms[circleID] = r
	slog.Info("bidding room opened",
		"circle_id", circleID, "round", roundNumber, "owner", ownerID)
	return r, nil
}

// Room returns the open room for a circle, or ErrNoRoom.
func (h *Hub) Room(circleID string) (*Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[circleID]
	if !ok {
		return nil, ErrNoRoom
	}
	return r, nil
}

// Close cancels the room's countdown, disconnects subscribers, and clears
// the session. Used when the round's outcome has been recorded or the admin
// abandons the auction.
func (h *Hub) Close(circleID string) {
	h.mu.Lock()
	r, ok := h.rooms[circleID]
	if ok {
		delete(h.rooms, circleID)
	}
	h.mu.Unlock()
	if ok {
		r.shutdown()
		slog.Info("bidding room closed", "circle_id", circleID)
	}
}

// Room is one circle's live bidding session plus its subscribers. The room
// owns the countdown goroutine; subscribers only ever read events.
type Room struct {
	hub *Hub

	mu      sync.Mutex
	session Session
	subs    map[chan Event]struct{}
	stop    chan struct{}
	closed  bool
}

// Snapshot returns a copy of the current session state.
func (r *Room) Snapshot() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(&r.session)
}

// Subscribe registers a listener. The first event on the channel is a full
// AUCTION_UPDATE snapshot (the late-join catch-up), followed by the live
// stream. The returned cancel func must be called when done; it is safe to
// call after the room closes.
func (r *Room) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	r.subs[ch] = struct{}{}
	ch <- Event{Type: EventUpdate, Session: snapshot(&r.session)}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subs[ch]; ok {
			delete(r.subs, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

// Start begins the countdown. Only the owner that opened the room may start
// it, and only from WAITING.
func (r *Room) Start(ownerID string) error {
	r.mu.Lock()
	if r.session.OwnerID != ownerID {
		r.mu.Unlock()
		return ErrNotOwner
	}
	if r.session.Status != StatusWaiting {
		r.mu.Unlock()
		return ErrNotWaiting
	}
	r.session.Status = StatusLive
	r.session.TimeLeft = r.hub.cfg.Countdown
	r.stop = make(chan struct{})
	stop := r.stop
	r.broadcastLocked(EventUpdate)
	r.mu.Unlock()

	go r.runTimer(stop)
	return nil
}

// runTimer is the owner's authoritative countdown: one TIMER_SYNC per tick,
// FINISHED when it reaches zero.
func (r *Room) runTimer(stop chan struct{}) {
	ticker := time.NewTicker(r.hub.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if r.tickOnce() {
				return
			}
		}
	}
}

// tickOnce advances the countdown by one tick, returning true when the
// session finished.
func (r *Room) tickOnce() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session.Status != StatusLive {
		return true
	}
	r.session.TimeLeft--
	if r.session.TimeLeft <= 0 {
		r.session.TimeLeft = 0
		r.session.Status = StatusFinished
		r.broadcastLocked(EventTimerSync)
		slog.Info("bidding finished",
			"circle_id", r.session.CircleID,
			"round", r.session.RoundNumber,
			"winner", r.session.WinnerID,
			"highest_bid", r.session.HighestBid)
		return true
	}
	r.broadcastLocked(EventTimerSync)
	return false
}

// PlaceBid submits a bid. Accepted only while LIVE, at or above the minimum
// for the first bid, and strictly above the current highest thereafter; an
// accepted bid resets the countdown and is prepended to the history.
// Non-beating bids are silently dropped (no rejection message), per the
// strictly-ascending English auction rule.
func (r *Room) PlaceBid(memberID string, amount decimal.Decimal) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session.Status != StatusLive {
		return false
	}
	if len(r.session.BidHistory) == 0 {
		if amount.LessThan(r.session.MinBid) {
			return false
		}
	} else if !amount.GreaterThan(r.session.HighestBid) {
		return false
	}

	r.session.HighestBid = amount
	r.session.WinnerID = memberID
	r.session.TimeLeft = bidResetTicks
	r.session.BidHistory = append([]Bid{{
		MemberID: memberID,
		Amount:   amount,
		At:       now(),
	}}, r.session.BidHistory...)
	r.broadcastLocked(EventNewBid)
	return true
}

// broadcastLocked fans the current snapshot out to subscribers. Slow
// subscribers are skipped rather than blocking the room; they catch up from
// the next snapshot, which is why events carry full state.
func (r *Room) broadcastLocked(t EventType) {
	ev := Event{Type: t, Session: snapshot(&r.session)}
	for ch := range r.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (r *Room) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
	for ch := range r.subs {
		delete(r.subs, ch)
		close(ch)
	}
}
