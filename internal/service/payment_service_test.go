package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/models"
	"github.com/teeraphan/wongshare/internal/rpc"
)

// startedCircle registers an admin plus three members and starts a 4-slot
// circle, returning everything the payment tests need.
func startedCircle(t *testing.T, env *testEnv) (circleID, adminToken string, memberTokens []string, memberIDs []string) {
	t.Helper()
	ctx := context.Background()

	adminToken, adminID := env.register(t, "admin@example.com", "แม่วง", models.RoleCircleAdmin)
	t2, u2 := env.register(t, "u2@example.com", "สมชาย", models.RoleUser)
	t3, u3 := env.register(t, "u3@example.com", "สมหญิง", models.RoleUser)
	t4, u4 := env.register(t, "u4@example.com", "นก", models.RoleUser)

	circle := env.createCircle(t, adminToken, adminID, []string{u2, u3, u4})
	if _, err := env.circles.StartCircle(ctx, authed(&rpc.StartCircleRequest{CircleID: circle.ID}, adminToken)); err != nil {
		t.Fatalf("StartCircle failed: %v", err)
	}
	return circle.ID, adminToken, []string{t2, t3, t4}, []string{u2, u3, u4}
}

func TestSubmitAndApprovePayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	circleID, adminToken, memberTokens, memberIDs := startedCircle(t, env)

	resp, err := env.payments.SubmitPayment(ctx, authed(&rpc.SubmitPaymentRequest{
		CircleID:    circleID,
		RoundNumber: 1,
		Amount:      decimal.NewFromInt(1000),
		SlipName:    "slip.jpg",
		Slip:        []byte("fake-image-bytes"),
		Note:        "โอนแล้ว",
	}, memberTokens[0]))
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}
	tx := resp.Msg.Transaction
	if tx.Status != models.TransactionWaitingApproval {
		t.Errorf("status: expected WAITING_APPROVAL, got %s", tx.Status)
	}
	if !tx.ExpectedAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected amount: expected 1000, got %s", tx.ExpectedAmount)
	}
	if tx.MemberID != memberIDs[0] {
		t.Errorf("member: expected %s, got %s", memberIDs[0], tx.MemberID)
	}
	if !strings.HasPrefix(tx.SlipURL, "http://files.test/") {
		t.Errorf("slip URL: got %q", tx.SlipURL)
	}
	if resp.Msg.Verification == nil || !resp.Msg.Verification.IsValid {
		t.Errorf("expected passing verification, got %+v", resp.Msg.Verification)
	}

	approved, err := env.payments.ApproveTransaction(ctx, authed(&rpc.ApproveTransactionRequest{TransactionID: tx.ID}, adminToken))
	if err != nil {
		t.Fatalf("ApproveTransaction failed: %v", err)
	}
	if approved.Msg.Transaction.Status != models.TransactionPaid {
		t.Errorf("status: expected PAID, got %s", approved.Msg.Transaction.Status)
	}

	// Members cannot approve.
	_, err = env.payments.ApproveTransaction(ctx, authed(&rpc.ApproveTransactionRequest{TransactionID: tx.ID}, memberTokens[1]))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("member approval: expected permission_denied, got %v", err)
	}

	list, err := env.payments.ListTransactions(ctx, authed(&rpc.ListTransactionsRequest{CircleID: circleID, RoundNumber: 1}, adminToken))
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(list.Msg.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(list.Msg.Transactions))
	}
}

func TestSubmitPaymentRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	circleID, _, _, _ := startedCircle(t, env)

	strangerToken, _ := env.register(t, "stranger@example.com", "Stranger", models.RoleUser)
	_, err := env.payments.SubmitPayment(context.Background(), authed(&rpc.SubmitPaymentRequest{
		CircleID:    circleID,
		RoundNumber: 1,
		Amount:      decimal.NewFromInt(1000),
	}, strangerToken))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}

func TestSubmitPaymentRejectedForOpenRound(t *testing.T) {
	env := newTestEnv(t)
	circleID, _, memberTokens, _ := startedCircle(t, env)

	// Round 2 exists but is OPEN: no winner yet, nothing to collect.
	_, err := env.payments.SubmitPayment(context.Background(), authed(&rpc.SubmitPaymentRequest{
		CircleID:    circleID,
		RoundNumber: 2,
		Amount:      decimal.NewFromInt(1000),
	}, memberTokens[0]))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Fatalf("expected failed_precondition, got %v", err)
	}
}

// A fixed-ladder circle collects by the calendar, not by auction outcome: an
// OPEN round whose due date has passed accepts contributions.
func TestSubmitPaymentFixedRoundCollectsByDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	adminToken, adminID := env.register(t, "mae-fixed@example.com", "แม่วง", models.RoleCircleAdmin)
	_, u2 := env.register(t, "fixed2@example.com", "สมชาย", models.RoleUser)
	t3, u3 := env.register(t, "fixed3@example.com", "สมหญิง", models.RoleUser)

	due := decimal.NewFromInt(1100)
	created, err := env.circles.CreateCircle(ctx, authed(&rpc.CreateCircleRequest{
		Circle: models.Circle{
			Name:        "วงขั้นบันได",
			Principal:   decimal.NewFromInt(1000),
			TotalSlots:  3,
			Type:        models.DokTam,
			BiddingType: models.BiddingFixed,
			Period:      models.PeriodDaily,
			StartDate:   time.Now().AddDate(0, 0, -3).Unix(),
			Members: []models.CircleMember{
				{MemberID: adminID, DisplayName: "เท้า", SlotNumber: 1, Status: models.MemberAlive},
				{MemberID: u2, DisplayName: "มือสอง", SlotNumber: 2, Status: models.MemberAlive, FixedDueAmount: due},
				{MemberID: u3, DisplayName: "มือสาม", SlotNumber: 3, Status: models.MemberAlive, FixedDueAmount: due},
			},
		},
	}, adminToken))
	if err != nil {
		t.Fatalf("CreateCircle failed: %v", err)
	}
	circleID := created.Msg.Circle.ID
	if _, err := env.circles.StartCircle(ctx, authed(&rpc.StartCircleRequest{CircleID: circleID}, adminToken)); err != nil {
		t.Fatalf("StartCircle failed: %v", err)
	}

	// Round 2 is still OPEN (no winner mechanics in fixed mode) but its due
	// date was two days ago, so slot 3 can already pay.
	resp, err := env.payments.SubmitPayment(ctx, authed(&rpc.SubmitPaymentRequest{
		CircleID:    circleID,
		RoundNumber: 2,
		Amount:      due,
	}, t3))
	if err != nil {
		t.Fatalf("SubmitPayment for an open fixed round failed: %v", err)
	}
	if !resp.Msg.Transaction.ExpectedAmount.Equal(due) {
		t.Errorf("expected amount: expected %s, got %s", due, resp.Msg.Transaction.ExpectedAmount)
	}
}

func TestRoundSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	circleID, adminToken, memberTokens, memberIDs := startedCircle(t, env)

	// u2 pays and is approved; u3 and u4 still owe.
	paid, err := env.payments.SubmitPayment(ctx, authed(&rpc.SubmitPaymentRequest{
		CircleID:    circleID,
		RoundNumber: 1,
		Amount:      decimal.NewFromInt(1000),
	}, memberTokens[0]))
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}

	// Before approval the submission already settles u2's slot in the
	// expectation math, but no money has been collected yet.
	pending, err := env.payments.RoundSummary(ctx, authed(&rpc.RoundSummaryRequest{CircleID: circleID, RoundNumber: 1}, adminToken))
	if err != nil {
		t.Fatalf("RoundSummary failed: %v", err)
	}
	if !pending.Msg.ExpectedTotal.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("pending expected total: expected 2000, got %s", pending.Msg.ExpectedTotal)
	}
	if !pending.Msg.CollectedSum.IsZero() {
		t.Errorf("pending collected: expected 0, got %s", pending.Msg.CollectedSum)
	}

	if _, err := env.payments.ApproveTransaction(ctx, authed(&rpc.ApproveTransactionRequest{TransactionID: paid.Msg.Transaction.ID}, adminToken)); err != nil {
		t.Fatalf("ApproveTransaction failed: %v", err)
	}

	summary, err := env.payments.RoundSummary(ctx, authed(&rpc.RoundSummaryRequest{CircleID: circleID, RoundNumber: 1}, adminToken))
	if err != nil {
		t.Fatalf("RoundSummary failed: %v", err)
	}
	// Slots 2..4 owe the principal; u2 settled, so 2000 remains expected.
	if !summary.Msg.ExpectedTotal.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected total: expected 2000, got %s", summary.Msg.ExpectedTotal)
	}
	if !summary.Msg.CollectedSum.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("collected: expected 1000, got %s", summary.Msg.CollectedSum)
	}
	if len(summary.Msg.Dues) != 3 {
		t.Fatalf("expected 3 due entries, got %d", len(summary.Msg.Dues))
	}
	for _, due := range summary.Msg.Dues {
		wantSettled := due.MemberID == memberIDs[0]
		if due.Settled != wantSettled {
			t.Errorf("member %s settled: expected %v, got %v", due.MemberID, wantSettled, due.Settled)
		}
	}
}

func TestRejectTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	circleID, adminToken, memberTokens, _ := startedCircle(t, env)

	resp, err := env.payments.SubmitPayment(ctx, authed(&rpc.SubmitPaymentRequest{
		CircleID:    circleID,
		RoundNumber: 1,
		Amount:      decimal.NewFromInt(900),
	}, memberTokens[0]))
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}

	rejected, err := env.payments.RejectTransaction(ctx, authed(&rpc.RejectTransactionRequest{
		TransactionID: resp.Msg.Transaction.ID,
		Reason:        "ยอดไม่ครบ",
	}, adminToken))
	if err != nil {
		t.Fatalf("RejectTransaction failed: %v", err)
	}
	if rejected.Msg.Transaction.Status != models.TransactionRejected {
		t.Errorf("status: expected REJECTED, got %s", rejected.Msg.Transaction.Status)
	}
}

func TestAddPayoutCompletesRound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	circleID, adminToken, _, _ := startedCircle(t, env)

	circle, err := env.circles.GetCircle(ctx, authed(&rpc.GetCircleRequest{CircleID: circleID}, adminToken))
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	founderID := circle.Msg.Circle.Round(1).WinnerID

	payout, err := env.payments.AddPayout(ctx, authed(&rpc.AddPayoutRequest{
		CircleID:    circleID,
		RoundNumber: 1,
		MemberID:    founderID,
		Amount:      decimal.NewFromInt(4000),
	}, adminToken))
	if err != nil {
		t.Fatalf("AddPayout failed: %v", err)
	}
	if payout.Msg.Payout.ID == "" {
		t.Error("expected payout ID")
	}

	after, err := env.circles.GetCircle(ctx, authed(&rpc.GetCircleRequest{CircleID: circleID}, adminToken))
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got := after.Msg.Circle.Round(1).Status; got != models.RoundCompleted {
		t.Errorf("round 1 after payout: expected COMPLETED, got %s", got)
	}
}

func TestSubmitClosingBalance(t *testing.T) {
	env := newTestEnv(t)
	circleID, _, memberTokens, _ := startedCircle(t, env)

	resp, err := env.payments.SubmitClosingBalance(context.Background(), authed(&rpc.SubmitClosingBalanceRequest{
		CircleID: circleID,
		Amount:   decimal.NewFromInt(2500),
		Note:     "ปิดยอด",
	}, memberTokens[1]))
	if err != nil {
		t.Fatalf("SubmitClosingBalance failed: %v", err)
	}
	tx := resp.Msg.Transaction
	if !tx.IsClosingBalance {
		t.Error("expected closing-balance flag")
	}
	if tx.RoundNumber != 1 {
		t.Errorf("round: expected current round 1, got %d", tx.RoundNumber)
	}
	if !tx.PaidAmount.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("paid: expected 2500, got %s", tx.PaidAmount)
	}
}
