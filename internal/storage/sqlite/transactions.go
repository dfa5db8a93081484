package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teeraphan/wongshare/internal/models"
	"github.com/teeraphan/wongshare/internal/storage"
)

// CreateTransaction persists a payment submission, generating the ID and
// timestamp.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	if t.Status == "" {
		t.Status = models.TransactionWaitingApproval
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, circle_id, round_number, member_id, expected_amount,
		                           paid_amount, status, slip_url, is_fine, is_closing_balance, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.CircleID, t.RoundNumber, t.MemberID, t.ExpectedAmount, t.PaidAmount,
		string(t.Status), t.SlipURL, boolToInt(t.IsFine), boolToInt(t.IsClosingBalance),
		t.Note, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves one transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	t := &models.Transaction{}
	var isFine, isClosing int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, circle_id, round_number, member_id, expected_amount, paid_amount,
		        status, slip_url, is_fine, is_closing_balance, note, created_at
		 FROM transactions WHERE id = ?`, id,
	).Scan(&t.ID, &t.CircleID, &t.RoundNumber, &t.MemberID, &t.ExpectedAmount, &t.PaidAmount,
		&t.Status, &t.SlipURL, &isFine, &isClosing, &t.Note, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	t.IsFine = isFine != 0
	t.IsClosingBalance = isClosing != 0
	return t, nil
}

// UpdateTransactionStatus moves a transaction through its approval states.
func (s *SQLiteStore) UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListTransactions returns a circle's transactions, newest first;
// roundNumber 0 means all rounds.
func (s *SQLiteStore) ListTransactions(ctx context.Context, circleID string, roundNumber int) ([]*models.Transaction, error) {
	query := `SELECT id, circle_id, round_number, member_id, expected_amount, paid_amount,
	                 status, slip_url, is_fine, is_closing_balance, note, created_at
	          FROM transactions WHERE circle_id = ?`
	args := []any{circleID}
	if roundNumber > 0 {
		query += ` AND round_number = ?`
		args = append(args, roundNumber)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		var isFine, isClosing int
		if err := rows.Scan(&t.ID, &t.CircleID, &t.RoundNumber, &t.MemberID, &t.ExpectedAmount,
			&t.PaidAmount, &t.Status, &t.SlipURL, &isFine, &isClosing, &t.Note, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.IsFine = isFine != 0
		t.IsClosingBalance = isClosing != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreatePayout records a pot disbursement.
func (s *SQLiteStore) CreatePayout(ctx context.Context, p *models.Payout) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payouts (id, circle_id, round_number, member_id, amount, slip_url, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CircleID, p.RoundNumber, p.MemberID, p.Amount, p.SlipURL, p.Note, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payout: %w", err)
	}
	return nil
}

// ListPayouts returns a circle's payouts in round order.
func (s *SQLiteStore) ListPayouts(ctx context.Context, circleID string) ([]*models.Payout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, circle_id, round_number, member_id, amount, slip_url, note, created_at
		 FROM payouts WHERE circle_id = ? ORDER BY round_number`, circleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	defer rows.Close()

	var out []*models.Payout
	for rows.Next() {
		p := &models.Payout{}
		if err := rows.Scan(&p.ID, &p.CircleID, &p.RoundNumber, &p.MemberID, &p.Amount,
			&p.SlipURL, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
