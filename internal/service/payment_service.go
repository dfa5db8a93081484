package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/calculator"
	"github.com/teeraphan/wongshare/internal/filestore"
	"github.com/teeraphan/wongshare/internal/lifecycle"
	"github.com/teeraphan/wongshare/internal/middleware"
	"github.com/teeraphan/wongshare/internal/models"
	"github.com/teeraphan/wongshare/internal/notify"
	"github.com/teeraphan/wongshare/internal/rpc"
	"github.com/teeraphan/wongshare/internal/storage"
	"github.com/teeraphan/wongshare/internal/verify"
)

// errRoundNotCollectible rejects contributions for rounds the calculator
// says are not collectible yet: auction rounds before a winner is recorded,
// and fixed rounds whose due date has not arrived.
var errRoundNotCollectible = errors.New("round is not collectible yet")

// PaymentService implements the Connect PaymentService: contribution
// submission with slip upload and verification, the admin approval flow,
// round summaries, and payouts.
type PaymentService struct {
	store    storage.Store
	files    filestore.Store
	verifier verify.Verifier
	notifier notify.Notifier
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store storage.Store, files filestore.Store, verifier verify.Verifier, notifier notify.Notifier) *PaymentService {
	return &PaymentService{store: store, files: files, verifier: verifier, notifier: notifier}
}

// processSlip uploads the slip image and runs verification. Either step is
// skipped when no slip was attached.
func (s *PaymentService) processSlip(ctx context.Context, circleID, name string, slip []byte, claimed decimal.Decimal) (string, *rpc.Verification, error) {
	if len(slip) == 0 {
		return "", nil, nil
	}
	url, err := s.files.Upload(slip, circleID, name)
	if err != nil {
		return "", nil, fmt.Errorf("store slip: %w", err)
	}
	result, err := s.verifier.Verify(ctx, slip, claimed)
	if err != nil {
		// Verification is advisory; a dead verifier must not block payment.
		slog.Warn("slip verification unavailable", "circle_id", circleID, "error", err)
		return url, nil, nil
	}
	return url, &rpc.Verification{
		IsValid:   result.IsValid,
		Sender:    result.Sender,
		Receiver:  result.Receiver,
		Amount:    result.Amount,
		TxID:      result.TxID,
		Timestamp: result.Timestamp,
		Message:   result.Message,
	}, nil
}

// SubmitPayment records a member's contribution for a round, pending admin
// approval. The expected amount comes from the obligation calculator.
func (s *PaymentService) SubmitPayment(ctx context.Context, req *connect.Request[rpc.SubmitPaymentRequest]) (*connect.Response[rpc.TransactionResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("SubmitPayment request", "circle_id", req.Msg.CircleID, "round", req.Msg.RoundNumber, "user_id", userID)

	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	member := circle.MemberByID(userID)
	if member == nil {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	round := circle.Round(req.Msg.RoundNumber)
	if round == nil {
		return nil, connect.NewError(connect.CodeNotFound, lifecycle.ErrRoundNotFound)
	}
	if !calculator.Collectible(circle, round, time.Now()) {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errRoundNotCollectible)
	}

	slipURL, verification, err := s.processSlip(ctx, circle.ID, req.Msg.SlipName, req.Msg.Slip, req.Msg.Amount)
	if err != nil {
		slog.Error("SubmitPayment slip handling failed", "circle_id", circle.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	tx := &models.Transaction{
		CircleID:       circle.ID,
		RoundNumber:    round.RoundNumber,
		MemberID:       userID,
		ExpectedAmount: calculator.Due(circle, round, member),
		PaidAmount:     req.Msg.Amount,
		SlipURL:        slipURL,
		Note:           req.Msg.Note,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		slog.Error("SubmitPayment failed", "circle_id", circle.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Payment submitted", "transaction_id", tx.ID, "expected", tx.ExpectedAmount, "paid", tx.PaidAmount)
	s.notifier.Send(fmt.Sprintf("วง %s งวดที่ %d: %s ส่งยอด %s (รออนุมัติ)",
		circle.Name, round.RoundNumber, member.DisplayName, tx.PaidAmount), slipURL)
	return connect.NewResponse(&rpc.TransactionResponse{Transaction: *tx, Verification: verification}), nil
}

// SubmitClosingBalance records a lump-sum settlement from a member when a
// circle winds down early.
func (s *PaymentService) SubmitClosingBalance(ctx context.Context, req *connect.Request[rpc.SubmitClosingBalanceRequest]) (*connect.Response[rpc.TransactionResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("SubmitClosingBalance request", "circle_id", req.Msg.CircleID, "user_id", userID)

	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	member := circle.MemberByID(userID)
	if member == nil {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}

	roundNumber := 0
	if round := currentRound(circle); round != nil {
		roundNumber = round.RoundNumber
	}

	slipURL, verification, err := s.processSlip(ctx, circle.ID, req.Msg.SlipName, req.Msg.Slip, req.Msg.Amount)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	tx := &models.Transaction{
		CircleID:         circle.ID,
		RoundNumber:      roundNumber,
		MemberID:         userID,
		ExpectedAmount:   req.Msg.Amount,
		PaidAmount:       req.Msg.Amount,
		SlipURL:          slipURL,
		IsClosingBalance: true,
		Note:             req.Msg.Note,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, storeError(err)
	}

	s.notifier.Send(fmt.Sprintf("วง %s: %s ส่งยอดปิดวง %s", circle.Name, member.DisplayName, tx.PaidAmount), slipURL)
	return connect.NewResponse(&rpc.TransactionResponse{Transaction: *tx, Verification: verification}), nil
}

// loadTransactionForAdmin fetches a transaction and checks the caller
// administers its circle.
func (s *PaymentService) loadTransactionForAdmin(ctx context.Context, txID string) (*models.Transaction, *models.Circle, error) {
	tx, err := s.store.GetTransaction(ctx, txID)
	if err != nil {
		return nil, nil, storeError(err)
	}
	circle, err := s.store.GetCircle(ctx, tx.CircleID)
	if err != nil {
		return nil, nil, storeError(err)
	}
	if !canAdminister(ctx, circle) {
		return nil, nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	return tx, circle, nil
}

// ApproveTransaction marks a pending contribution as paid.
func (s *PaymentService) ApproveTransaction(ctx context.Context, req *connect.Request[rpc.ApproveTransactionRequest]) (*connect.Response[rpc.TransactionResponse], error) {
	tx, _, err := s.loadTransactionForAdmin(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateTransactionStatus(ctx, tx.ID, models.TransactionPaid); err != nil {
		return nil, storeError(err)
	}
	tx.Status = models.TransactionPaid
	slog.Info("Transaction approved", "transaction_id", tx.ID)
	return connect.NewResponse(&rpc.TransactionResponse{Transaction: *tx}), nil
}

// RejectTransaction marks a pending contribution as rejected.
func (s *PaymentService) RejectTransaction(ctx context.Context, req *connect.Request[rpc.RejectTransactionRequest]) (*connect.Response[rpc.TransactionResponse], error) {
	tx, circle, err := s.loadTransactionForAdmin(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateTransactionStatus(ctx, tx.ID, models.TransactionRejected); err != nil {
		return nil, storeError(err)
	}
	tx.Status = models.TransactionRejected
	slog.Info("Transaction rejected", "transaction_id", tx.ID, "reason", req.Msg.Reason)
	if member := circle.MemberByID(tx.MemberID); member != nil {
		s.notifier.Send(fmt.Sprintf("วง %s: ยอดของ %s ถูกปฏิเสธ (%s)", circle.Name, member.DisplayName, req.Msg.Reason), "")
	}
	return connect.NewResponse(&rpc.TransactionResponse{Transaction: *tx}), nil
}

// ListTransactions returns a circle's transactions, newest first, optionally
// filtered to one round.
func (s *PaymentService) ListTransactions(ctx context.Context, req *connect.Request[rpc.ListTransactionsRequest]) (*connect.Response[rpc.ListTransactionsResponse], error) {
	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	if !canView(ctx, circle) {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	txs, err := s.store.ListTransactions(ctx, circle.ID, req.Msg.RoundNumber)
	if err != nil {
		return nil, storeError(err)
	}
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = *tx
	}
	return connect.NewResponse(&rpc.ListTransactionsResponse{Transactions: out}), nil
}

// RoundSummary reports who owes what for a round, what has been collected,
// and who is overdue.
func (s *PaymentService) RoundSummary(ctx context.Context, req *connect.Request[rpc.RoundSummaryRequest]) (*connect.Response[rpc.RoundSummaryResponse], error) {
	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	if !canView(ctx, circle) {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	round := circle.Round(req.Msg.RoundNumber)
	if round == nil {
		return nil, connect.NewError(connect.CodeNotFound, lifecycle.ErrRoundNotFound)
	}

	txs, err := s.store.ListTransactions(ctx, circle.ID, round.RoundNumber)
	if err != nil {
		return nil, storeError(err)
	}
	// A submission waiting for approval already settles the member's slot in
	// the expectation math, but only approved money counts as collected.
	settled := make(map[string]bool)
	collected := decimal.Zero
	for _, tx := range txs {
		if tx.IsFine {
			continue
		}
		switch tx.Status {
		case models.TransactionPaid:
			settled[tx.MemberID] = true
			collected = collected.Add(tx.PaidAmount)
		case models.TransactionWaitingApproval:
			settled[tx.MemberID] = true
		}
	}

	now := time.Now()
	resp := &rpc.RoundSummaryResponse{
		ExpectedTotal: calculator.ExpectedTotal(circle, round, settled),
		CollectedSum:  collected,
		Collectible:   calculator.Collectible(circle, round, now),
	}
	for i := range circle.Members {
		member := &circle.Members[i]
		due := calculator.Due(circle, round, member)
		if due.IsZero() && !settled[member.MemberID] {
			continue
		}
		resp.Dues = append(resp.Dues, rpc.MemberDue{
			MemberID:    member.MemberID,
			DisplayName: member.DisplayName,
			SlotNumber:  member.SlotNumber,
			Amount:      due,
			Settled:     settled[member.MemberID],
		})
		if settled[member.MemberID] {
			continue
		}
		if owed, days := calculator.Overdue(circle, round, member, now); days > 0 && owed.IsPositive() {
			resp.Overdue = append(resp.Overdue, rpc.OverdueEntry{
				MemberID:    member.MemberID,
				DisplayName: member.DisplayName,
				Amount:      owed,
				DaysLate:    days,
			})
		}
	}
	return connect.NewResponse(resp), nil
}

// AddPayout records the pot disbursement to a round's winner and completes
// the round.
func (s *PaymentService) AddPayout(ctx context.Context, req *connect.Request[rpc.AddPayoutRequest]) (*connect.Response[rpc.PayoutResponse], error) {
	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	if !canAdminister(ctx, circle) {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	round := circle.Round(req.Msg.RoundNumber)
	if round == nil {
		return nil, connect.NewError(connect.CodeNotFound, lifecycle.ErrRoundNotFound)
	}

	slipURL := ""
	if len(req.Msg.Slip) > 0 {
		if slipURL, err = s.files.Upload(req.Msg.Slip, circle.ID, req.Msg.SlipName); err != nil {
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	payout := &models.Payout{
		CircleID:    circle.ID,
		RoundNumber: round.RoundNumber,
		MemberID:    req.Msg.MemberID,
		Amount:      req.Msg.Amount,
		SlipURL:     slipURL,
		Note:        req.Msg.Note,
	}
	if err := s.store.CreatePayout(ctx, payout); err != nil {
		return nil, storeError(err)
	}

	if err := lifecycle.CompleteRound(circle, round.RoundNumber); err == nil {
		if err := s.store.SaveCircle(ctx, circle); err != nil {
			slog.Error("AddPayout round completion save failed", "circle_id", circle.ID, "error", err)
		}
	}

	slog.Info("Payout recorded", "payout_id", payout.ID, "circle_id", circle.ID, "round", round.RoundNumber, "amount", payout.Amount)
	s.notifier.Send(fmt.Sprintf("วง %s งวดที่ %d: จ่ายกองกลาง %s แล้ว", circle.Name, round.RoundNumber, payout.Amount), slipURL)
	return connect.NewResponse(&rpc.PayoutResponse{Payout: *payout}), nil
}
