package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/models"
	"github.com/teeraphan/wongshare/internal/storage"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testCircle() *models.Circle {
	c := &models.Circle{
		Name:        "วงทดสอบ",
		OwnerID:     "admin-1",
		Principal:   dec(2000),
		TotalSlots:  4,
		Type:        models.DokTam,
		BiddingType: models.BiddingAuction,
		Status:      models.CircleInitializing,
		MinBid:      dec(100),
		BidStep:     dec(50),
		AdminFee:    dec(0),
		FineRate:    dec(20),
		Period:      models.PeriodMonthly,
		StartDate:   1750000000,
		NextDueDate: 1750000000,
	}
	for n := 1; n <= 4; n++ {
		c.Members = append(c.Members, models.CircleMember{
			MemberID:   "u" + string(rune('0'+n)),
			SlotNumber: n,
			Status:     models.MemberAlive,
		})
	}
	c.Rounds = append(c.Rounds, models.ShareRound{
		RoundNumber: 1,
		Date:        1750000000,
		Status:      models.RoundOpen,
	})
	return c
}

func TestCircleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testCircle()
	if err := store.CreateCircle(ctx, c); err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected circle ID to be generated")
	}
	if c.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.Name != c.Name || got.TotalSlots != 4 {
		t.Errorf("circle mismatch: %+v", got)
	}
	if !got.Principal.Equal(dec(2000)) {
		t.Errorf("principal = %s, want 2000 (decimal round-trip)", got.Principal)
	}
	if got.Type != models.DokTam || got.BiddingType != models.BiddingAuction {
		t.Errorf("enums mismatch: %s/%s", got.Type, got.BiddingType)
	}
	if len(got.Members) != 4 {
		t.Fatalf("members = %d, want 4", len(got.Members))
	}
	if got.Members[0].SlotNumber != 1 || got.Members[3].SlotNumber != 4 {
		t.Errorf("members not ordered by slot: %+v", got.Members)
	}
	if len(got.Rounds) != 1 || got.Rounds[0].Status != models.RoundOpen {
		t.Errorf("rounds mismatch: %+v", got.Rounds)
	}
}

func TestGetCircleNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetCircle(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveCircleRewritesAggregate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testCircle()
	if err := store.CreateCircle(ctx, c); err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}

	// Simulate a start transition: founder dead, round 1 collecting,
	// round 2 appended.
	c.Status = models.CircleSetupComplete
	c.Members[0].Status = models.MemberDead
	c.Members[0].WonRound = 1
	c.Rounds[0].Status = models.RoundCollecting
	c.Rounds[0].WinnerID = c.Members[0].MemberID
	c.Rounds[0].TotalPot = dec(8000)
	c.Rounds = append(c.Rounds, models.ShareRound{
		RoundNumber: 2, Date: 1752600000, Status: models.RoundOpen,
	})

	if err := store.SaveCircle(ctx, c); err != nil {
		t.Fatalf("SaveCircle failed: %v", err)
	}

	got, err := store.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.Status != models.CircleSetupComplete {
		t.Errorf("status = %s, want SETUP_COMPLETE", got.Status)
	}
	if got.Members[0].Status != models.MemberDead || got.Members[0].WonRound != 1 {
		t.Errorf("founder = %+v", got.Members[0])
	}
	if len(got.Rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(got.Rounds))
	}
	if !got.Rounds[0].TotalPot.Equal(dec(8000)) {
		t.Errorf("pot = %s, want 8000", got.Rounds[0].TotalPot)
	}

	// Saving an unknown circle fails.
	ghost := testCircle()
	ghost.ID = "ghost"
	if err := store.SaveCircle(ctx, ghost); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("SaveCircle ghost = %v, want ErrNotFound", err)
	}
}

func TestUpdateSlotPartialFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testCircle()
	c.Members[2].Note = "keep me"
	if err := store.CreateCircle(ctx, c); err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}

	err := store.UpdateSlot(ctx, c.ID, 3, map[string]any{
		"fixedDueAmount": dec(5500),
		"displayName":    "สมชาย",
	})
	if err != nil {
		t.Fatalf("UpdateSlot failed: %v", err)
	}

	got, err := store.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	slot := got.MemberBySlot(3)
	if !slot.FixedDueAmount.Equal(dec(5500)) || slot.DisplayName != "สมชาย" {
		t.Errorf("slot = %+v", slot)
	}
	// Unsupplied fields untouched.
	if slot.Note != "keep me" || slot.Status != models.MemberAlive {
		t.Errorf("unsupplied fields mutated: %+v", slot)
	}

	// Unknown field names are rejected, not dropped.
	if err := store.UpdateSlot(ctx, c.ID, 3, map[string]any{"slotNumber": 9}); err == nil {
		t.Error("unknown field accepted")
	}
	// Missing slot.
	if err := store.UpdateSlot(ctx, c.ID, 99, map[string]any{"note": "x"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing slot = %v, want ErrNotFound", err)
	}
}

func TestListCirclesRoleScoping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mine := testCircle()
	if err := store.CreateCircle(ctx, mine); err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}
	other := testCircle()
	other.OwnerID = "admin-2"
	for i := range other.Members {
		other.Members[i].MemberID = "x" + other.Members[i].MemberID
	}
	if err := store.CreateCircle(ctx, other); err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}

	tests := []struct {
		name   string
		role   models.Role
		userID string
		want   int
	}{
		{"system admin sees all", models.RoleSystemAdmin, "whoever", 2},
		{"circle admin sees own", models.RoleCircleAdmin, "admin-1", 1},
		{"member sees joined", models.RoleUser, "u2", 1},
		{"stranger sees none", models.RoleUser, "nobody", 0},
	}
	for _, tt := range tests {
		got, err := store.ListCircles(ctx, tt.role, tt.userID)
		if err != nil {
			t.Fatalf("%s: ListCircles failed: %v", tt.name, err)
		}
		if len(got) != tt.want {
			t.Errorf("%s: got %d circles, want %d", tt.name, len(got), tt.want)
		}
	}
}

func TestDeleteCircleCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testCircle()
	if err := store.CreateCircle(ctx, c); err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}
	tx := &models.Transaction{
		CircleID: c.ID, RoundNumber: 1, MemberID: "u2",
		ExpectedAmount: dec(2000), PaidAmount: dec(2000),
	}
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := store.DeleteCircle(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCircle failed: %v", err)
	}
	if _, err := store.GetCircle(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("circle still present: %v", err)
	}
	txs, err := store.ListTransactions(ctx, c.ID, 0)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("transactions survived cascade: %d", len(txs))
	}

	if err := store.DeleteCircle(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testCircle()
	if err := store.CreateCircle(ctx, c); err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}

	tx := &models.Transaction{
		CircleID:       c.ID,
		RoundNumber:    2,
		MemberID:       "u3",
		ExpectedAmount: dec(2000),
		PaidAmount:     dec(2000),
		SlipURL:        "/slips/abc.jpg",
	}
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if tx.Status != models.TransactionWaitingApproval {
		t.Errorf("default status = %s, want WAITING_APPROVAL", tx.Status)
	}

	if err := store.UpdateTransactionStatus(ctx, tx.ID, models.TransactionPaid); err != nil {
		t.Fatalf("UpdateTransactionStatus failed: %v", err)
	}
	got, err := store.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if got.Status != models.TransactionPaid || !got.PaidAmount.Equal(dec(2000)) {
		t.Errorf("transaction = %+v", got)
	}

	byRound, err := store.ListTransactions(ctx, c.ID, 2)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(byRound) != 1 {
		t.Errorf("round filter returned %d, want 1", len(byRound))
	}
	empty, err := store.ListTransactions(ctx, c.ID, 3)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("round 3 returned %d, want 0", len(empty))
	}
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.User{
		Name:         "สมหญิง",
		Email:        "somying@example.com",
		PasswordHash: "hash",
		Role:         models.RoleCircleAdmin,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "somying@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.Role != models.RoleCircleAdmin {
		t.Errorf("user = %+v", byEmail)
	}

	// Duplicate email rejected by the unique constraint.
	dup := &models.User{Name: "x", Email: "somying@example.com", PasswordHash: "h"}
	if err := store.CreateUser(ctx, dup); err == nil {
		t.Error("duplicate email accepted")
	}

	if err := store.UpdateUser(ctx, user.ID, map[string]any{"riskScore": 3, "phone": "0812345678"}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	got, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.RiskScore != 3 || got.Phone != "0812345678" || got.Name != "สมหญิง" {
		t.Errorf("user after partial update = %+v", got)
	}
}

func TestPayouts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testCircle()
	if err := store.CreateCircle(ctx, c); err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}

	p := &models.Payout{CircleID: c.ID, RoundNumber: 1, MemberID: "u1", Amount: dec(8000)}
	if err := store.CreatePayout(ctx, p); err != nil {
		t.Fatalf("CreatePayout failed: %v", err)
	}

	got, err := store.ListPayouts(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListPayouts failed: %v", err)
	}
	if len(got) != 1 || !got[0].Amount.Equal(dec(8000)) {
		t.Errorf("payouts = %+v", got)
	}
}
