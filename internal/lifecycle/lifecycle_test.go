package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/models"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func newCircle(t *testing.T, slots int) *models.Circle {
	t.Helper()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	c := &models.Circle{
		ID:          "c1",
		Name:        "test circle",
		Principal:   dec(5000),
		TotalSlots:  slots,
		Type:        models.DokTam,
		BiddingType: models.BiddingAuction,
		Period:      models.PeriodMonthly,
		StartDate:   start.Unix(),
	}
	for n := 1; n <= slots; n++ {
		c.Members = append(c.Members, models.CircleMember{
			MemberID:   memberID(n),
			SlotNumber: n,
			Status:     models.MemberAlive,
		})
	}
	if err := New(c); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func memberID(slot int) string { return "m" + string(rune('0'+slot)) }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Circle)
		wantErr bool
	}{
		{"valid", func(c *models.Circle) {}, false},
		{"one slot", func(c *models.Circle) { c.TotalSlots = 1; c.Members = c.Members[:1] }, true},
		{"duplicate slot", func(c *models.Circle) { c.Members[1].SlotNumber = 1 }, true},
		{"slot out of range", func(c *models.Circle) { c.Members[1].SlotNumber = 99 }, true},
		{"no founder", func(c *models.Circle) { c.Members = c.Members[1:] }, true},
		{"two lump-sum slots", func(c *models.Circle) {
			c.Members[2].PidTonAmount = dec(1000)
			c.Members[3].PidTonAmount = dec(1000)
		}, true},
		{"lump-sum not highest", func(c *models.Circle) { c.Members[1].PidTonAmount = dec(1000) }, true},
		{"lump-sum highest", func(c *models.Circle) { c.Members[3].PidTonAmount = dec(1000) }, false},
	}
	for _, tt := range tests {
		c := &models.Circle{TotalSlots: 4}
		for n := 1; n <= 4; n++ {
			c.Members = append(c.Members, models.CircleMember{MemberID: memberID(n), SlotNumber: n})
		}
		tt.mutate(c)
		err := Validate(c)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestNewCreatesRoundOne(t *testing.T) {
	c := newCircle(t, 5)
	if c.Status != models.CircleInitializing {
		t.Errorf("status = %s, want INITIALIZING", c.Status)
	}
	r1 := c.Round(1)
	if r1 == nil {
		t.Fatal("round 1 not created")
	}
	if r1.Status != models.RoundOpen {
		t.Errorf("round 1 status = %s, want OPEN", r1.Status)
	}
	if r1.Date != c.StartDate {
		t.Errorf("round 1 date = %d, want start date %d", r1.Date, c.StartDate)
	}
}

func TestStartUnderEnrolledFailsWithoutMutation(t *testing.T) {
	c := newCircle(t, 5)
	c.Members = c.Members[:3] // under-enrolled

	err := Start(c)
	if !errors.Is(err, ErrRosterIncomplete) {
		t.Fatalf("Start = %v, want ErrRosterIncomplete", err)
	}

	if c.Status != models.CircleInitializing {
		t.Errorf("status mutated to %s", c.Status)
	}
	if c.Members[0].Status != models.MemberAlive {
		t.Errorf("founder status mutated to %s", c.Members[0].Status)
	}
	if r1 := c.Round(1); r1.Status != models.RoundOpen {
		t.Errorf("round 1 mutated to %s", r1.Status)
	}
	if len(c.Rounds) != 1 {
		t.Errorf("rounds appended: %d", len(c.Rounds))
	}
}

func TestStart(t *testing.T) {
	c := newCircle(t, 5)
	if err := Start(c); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if c.Status != models.CircleSetupComplete {
		t.Errorf("status = %s, want SETUP_COMPLETE", c.Status)
	}

	founder := c.MemberBySlot(1)
	if founder.Status != models.MemberDead || founder.WonRound != 1 || !founder.BidAmount.IsZero() {
		t.Errorf("founder = %+v, want DEAD/wonRound 1/bid 0", founder)
	}

	r1 := c.Round(1)
	if r1.Status != models.RoundCollecting {
		t.Errorf("round 1 status = %s, want COLLECTING", r1.Status)
	}
	if r1.WinnerID != founder.MemberID {
		t.Errorf("round 1 winner = %s, want founder %s", r1.WinnerID, founder.MemberID)
	}
	if !r1.TotalPot.Equal(dec(25000)) {
		t.Errorf("round 1 pot = %s, want 25000 (5 slots x 5000)", r1.TotalPot)
	}

	r2 := c.Round(2)
	if r2 == nil {
		t.Fatal("round 2 not appended")
	}
	if r2.Status != models.RoundOpen {
		t.Errorf("round 2 status = %s, want OPEN", r2.Status)
	}
	wantDate := time.Unix(c.StartDate, 0).AddDate(0, 1, 0).Unix()
	if r2.Date != wantDate {
		t.Errorf("round 2 date = %d, want one month after start (%d)", r2.Date, wantDate)
	}
	if len(c.Rounds) != 2 {
		t.Errorf("rounds = %d, want exactly 2", len(c.Rounds))
	}

	// Starting twice is rejected.
	if err := Start(c); !errors.Is(err, ErrNotInitializing) {
		t.Errorf("second Start = %v, want ErrNotInitializing", err)
	}
}

func TestRecordBid(t *testing.T) {
	c := newCircle(t, 5)
	if err := Start(c); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	prevDue := c.NextDueDate

	err := RecordBid(c, 2, "m3", dec(250), dec(24750))
	if err != nil {
		t.Fatalf("RecordBid failed: %v", err)
	}

	r2 := c.Round(2)
	if r2.Status != models.RoundCollecting || r2.WinnerID != "m3" {
		t.Errorf("round 2 = %+v, want COLLECTING winner m3", r2)
	}
	if !r2.BidAmount.Equal(dec(250)) || !r2.TotalPot.Equal(dec(24750)) {
		t.Errorf("round 2 bid/pot = %s/%s, want 250/24750", r2.BidAmount, r2.TotalPot)
	}

	winner := c.MemberByID("m3")
	if winner.Status != models.MemberDead || winner.WonRound != 2 || !winner.BidAmount.Equal(dec(250)) {
		t.Errorf("winner = %+v, want DEAD/wonRound 2/bid 250", winner)
	}

	wantDue := time.Unix(prevDue, 0).AddDate(0, 1, 0).Unix()
	if c.NextDueDate != wantDue {
		t.Errorf("next due = %d, want advanced one month (%d)", c.NextDueDate, wantDue)
	}

	if r3 := c.Round(3); r3 == nil || r3.Status != models.RoundOpen {
		t.Errorf("round 3 = %+v, want appended OPEN", r3)
	}
}

func TestRecordBidFinalRoundAppendsNothing(t *testing.T) {
	c := newCircle(t, 3)
	if err := Start(c); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := RecordBid(c, 2, "m2", dec(100), dec(14900)); err != nil {
		t.Fatalf("RecordBid round 2 failed: %v", err)
	}
	if err := RecordBid(c, 3, "m3", dec(0), dec(15000)); err != nil {
		t.Fatalf("RecordBid round 3 failed: %v", err)
	}
	if len(c.Rounds) != 3 {
		t.Errorf("rounds = %d, want 3 (no round past the final)", len(c.Rounds))
	}
}

func TestRecordBidRejections(t *testing.T) {
	c := newCircle(t, 4)
	if err := Start(c); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := RecordBid(c, 9, "m2", dec(1), dec(1)); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("missing round: %v, want ErrRoundNotFound", err)
	}
	if err := RecordBid(c, 2, "ghost", dec(1), dec(1)); !errors.Is(err, ErrWinnerUnknown) {
		t.Errorf("unknown winner: %v, want ErrWinnerUnknown", err)
	}
	// The founder already received round 1.
	if err := RecordBid(c, 2, "m1", dec(1), dec(1)); !errors.Is(err, ErrAlreadyWon) {
		t.Errorf("dead winner: %v, want ErrAlreadyWon", err)
	}

	Close(c)
	if err := RecordBid(c, 2, "m2", dec(1), dec(1)); !errors.Is(err, ErrNotRunning) {
		t.Errorf("archived circle: %v, want ErrNotRunning", err)
	}
}

func TestCompleteRound(t *testing.T) {
	c := newCircle(t, 4)
	if err := Start(c); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := CompleteRound(c, 1); err != nil {
		t.Fatalf("CompleteRound failed: %v", err)
	}
	if c.Round(1).Status != models.RoundCompleted {
		t.Errorf("round 1 = %s, want COMPLETED", c.Round(1).Status)
	}

	// Round 2 is still OPEN: completing it out of order is rejected.
	if err := CompleteRound(c, 2); !errors.Is(err, ErrRoundNotOpen) {
		t.Errorf("open round: %v, want ErrRoundNotOpen", err)
	}

	// Circles remain in play after rounds complete, until archived.
	if !c.Status.Running() {
		t.Errorf("status = %s, want still running", c.Status)
	}
}

func TestNextDate(t *testing.T) {
	base := time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local)
	tests := []struct {
		period   models.Period
		interval int
		want     time.Time
	}{
		{models.PeriodDaily, 1, base.AddDate(0, 0, 1)},
		{models.PeriodDaily, 3, base.AddDate(0, 0, 3)},
		{models.PeriodDaily, 0, base.AddDate(0, 0, 1)},
		{models.PeriodWeekly, 1, base.AddDate(0, 0, 7)},
		{models.PeriodMonthly, 1, base.AddDate(0, 1, 0)},
	}
	for _, tt := range tests {
		got := NextDate(base, tt.period, tt.interval)
		if !got.Equal(tt.want) {
			t.Errorf("%s/%d: next = %v, want %v", tt.period, tt.interval, got, tt.want)
		}
	}
}
