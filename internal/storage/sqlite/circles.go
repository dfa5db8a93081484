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

// CreateCircle persists a circle aggregate, generating missing IDs.
func (s *SQLiteStore) CreateCircle(ctx context.Context, circle *models.Circle) error {
	if circle.ID == "" {
		circle.ID = uuid.New().String()
	}
	if circle.CreatedAt == 0 {
		circle.CreatedAt = time.Now().Unix()
	}
	for i := range circle.Members {
		circle.Members[i].CircleID = circle.ID
		if circle.Members[i].ID == "" {
			circle.Members[i].ID = uuid.New().String()
		}
	}
	for i := range circle.Rounds {
		circle.Rounds[i].CircleID = circle.ID
		if circle.Rounds[i].ID == "" {
			circle.Rounds[i].ID = uuid.New().String()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertCircleRow(ctx, tx, circle); err != nil {
		return err
	}
	if err := insertMembers(ctx, tx, circle); err != nil {
		return err
	}
	if err := insertRounds(ctx, tx, circle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertCircleRow(ctx context.Context, tx *sql.Tx, c *models.Circle) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO circles (id, name, owner_id, principal, total_slots, type, bidding_type, status,
		                      min_bid, bid_step, admin_fee, fine_rate, period, period_interval,
		                      start_date, next_due_date, pay_window_start, pay_window_end, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.OwnerID, c.Principal, c.TotalSlots, string(c.Type), string(c.BiddingType),
		string(c.Status), c.MinBid, c.BidStep, c.AdminFee, c.FineRate, string(c.Period),
		c.PeriodInterval, c.StartDate, c.NextDueDate, c.PaymentWindowStart, c.PaymentWindowEnd,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert circle: %w", err)
	}
	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, c *models.Circle) error {
	for i := range c.Members {
		m := &c.Members[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO circle_members (id, circle_id, member_id, display_name, slot_number, status,
			                             won_round, bid_amount, fixed_due_amount, pid_ton_amount, note)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.CircleID, m.MemberID, m.DisplayName, m.SlotNumber, string(m.Status),
			m.WonRound, m.BidAmount, m.FixedDueAmount, m.PidTonAmount, m.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member slot %d: %w", m.SlotNumber, err)
		}
	}
	return nil
}

func insertRounds(ctx context.Context, tx *sql.Tx, c *models.Circle) error {
	for i := range c.Rounds {
		r := &c.Rounds[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rounds (id, circle_id, round_number, date, status, winner_id, bid_amount, total_pot)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.CircleID, r.RoundNumber, r.Date, string(r.Status), r.WinnerID, r.BidAmount, r.TotalPot,
		)
		if err != nil {
			return fmt.Errorf("failed to insert round %d: %w", r.RoundNumber, err)
		}
	}
	return nil
}

// GetCircle loads a full circle aggregate.
func (s *SQLiteStore) GetCircle(ctx context.Context, id string) (*models.Circle, error) {
	c := &models.Circle{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, principal, total_slots, type, bidding_type, status,
		        min_bid, bid_step, admin_fee, fine_rate, period, period_interval,
		        start_date, next_due_date, pay_window_start, pay_window_end, created_at
		 FROM circles WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.OwnerID, &c.Principal, &c.TotalSlots, &c.Type, &c.BiddingType,
		&c.Status, &c.MinBid, &c.BidStep, &c.AdminFee, &c.FineRate, &c.Period, &c.PeriodInterval,
		&c.StartDate, &c.NextDueDate, &c.PaymentWindowStart, &c.PaymentWindowEnd, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("circle %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get circle: %w", err)
	}

	if err := s.loadMembers(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadRounds(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, c *models.Circle) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, circle_id, member_id, display_name, slot_number, status,
		        won_round, bid_amount, fixed_due_amount, pid_ton_amount, note
		 FROM circle_members WHERE circle_id = ? ORDER BY slot_number`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.CircleMember
		if err := rows.Scan(&m.ID, &m.CircleID, &m.MemberID, &m.DisplayName, &m.SlotNumber,
			&m.Status, &m.WonRound, &m.BidAmount, &m.FixedDueAmount, &m.PidTonAmount, &m.Note); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		c.Members = append(c.Members, m)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadRounds(ctx context.Context, c *models.Circle) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, circle_id, round_number, date, status, winner_id, bid_amount, total_pot
		 FROM rounds WHERE circle_id = ? ORDER BY round_number`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to get rounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.ShareRound
		if err := rows.Scan(&r.ID, &r.CircleID, &r.RoundNumber, &r.Date, &r.Status,
			&r.WinnerID, &r.BidAmount, &r.TotalPot); err != nil {
			return fmt.Errorf("failed to scan round: %w", err)
		}
		c.Rounds = append(c.Rounds, r)
	}
	return rows.Err()
}

// ListCircles returns the circles visible to the role: end-users see circles
// they sit in, circle admins the ones they own, system admins everything.
func (s *SQLiteStore) ListCircles(ctx context.Context, role models.Role, userID string) ([]*models.Circle, error) {
	var (
		query string
		args  []any
	)
	switch role {
	case models.RoleSystemAdmin:
		query = `SELECT id FROM circles ORDER BY created_at DESC`
	case models.RoleCircleAdmin:
		query = `SELECT id FROM circles WHERE owner_id = ? ORDER BY created_at DESC`
		args = []any{userID}
	default:
		query = `SELECT c.id FROM circles c
		         JOIN circle_members m ON m.circle_id = c.id
		         WHERE m.member_id = ? ORDER BY c.created_at DESC`
		args = []any{userID}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list circles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan circle id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate circles: %w", err)
	}

	circles := make([]*models.Circle, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCircle(ctx, id)
		if err != nil {
			return nil, err
		}
		circles = append(circles, c)
	}
	return circles, nil
}

// SaveCircle rewrites the full aggregate in one transaction: circle row
// updated, members and rounds replaced. Lifecycle transitions go through
// this path; last write wins.
func (s *SQLiteStore) SaveCircle(ctx context.Context, circle *models.Circle) error {
	for i := range circle.Members {
		circle.Members[i].CircleID = circle.ID
		if circle.Members[i].ID == "" {
			circle.Members[i].ID = uuid.New().String()
		}
	}
	for i := range circle.Rounds {
		circle.Rounds[i].CircleID = circle.ID
		if circle.Rounds[i].ID == "" {
			circle.Rounds[i].ID = uuid.New().String()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE circles SET name = ?, owner_id = ?, principal = ?, total_slots = ?, type = ?,
		        bidding_type = ?, status = ?, min_bid = ?, bid_step = ?, admin_fee = ?,
		        fine_rate = ?, period = ?, period_interval = ?, start_date = ?, next_due_date = ?,
		        pay_window_start = ?, pay_window_end = ?
		 WHERE id = ?`,
		circle.Name, circle.OwnerID, circle.Principal, circle.TotalSlots, string(circle.Type),
		string(circle.BiddingType), string(circle.Status), circle.MinBid, circle.BidStep,
		circle.AdminFee, circle.FineRate, string(circle.Period), circle.PeriodInterval,
		circle.StartDate, circle.NextDueDate, circle.PaymentWindowStart, circle.PaymentWindowEnd,
		circle.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update circle: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("circle %s: %w", circle.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM circle_members WHERE circle_id = ?`, circle.ID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE circle_id = ?`, circle.ID); err != nil {
		return fmt.Errorf("failed to clear rounds: %w", err)
	}
	if err := insertMembers(ctx, tx, circle); err != nil {
		return err
	}
	if err := insertRounds(ctx, tx, circle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// circleColumns whitelists the fields UpdateCircle may touch.
var circleColumns = map[string]string{
	"name":               "name",
	"minBid":             "min_bid",
	"bidStep":            "bid_step",
	"adminFee":           "admin_fee",
	"fineRate":           "fine_rate",
	"nextDueDate":        "next_due_date",
	"paymentWindowStart": "pay_window_start",
	"paymentWindowEnd":   "pay_window_end",
	"status":             "status",
}

// UpdateCircle writes only the supplied circle fields.
func (s *SQLiteStore) UpdateCircle(ctx context.Context, id string, fields map[string]any) error {
	return s.partialUpdate(ctx, "circles", circleColumns, fields, "id = ?", id)
}

// slotColumns whitelists the fields UpdateSlot may touch.
var slotColumns = map[string]string{
	"memberId":       "member_id",
	"displayName":    "display_name",
	"status":         "status",
	"wonRound":       "won_round",
	"bidAmount":      "bid_amount",
	"fixedDueAmount": "fixed_due_amount",
	"pidTonAmount":   "pid_ton_amount",
	"note":           "note",
}

// UpdateSlot writes only the supplied fields of one slot.
func (s *SQLiteStore) UpdateSlot(ctx context.Context, circleID string, slotNumber int, fields map[string]any) error {
	return s.partialUpdate(ctx, "circle_members", slotColumns, fields,
		"circle_id = ? AND slot_number = ?", circleID, slotNumber)
}

// DeleteCircle removes a circle and, via cascade, its members, rounds,
// transactions, and payouts. Irreversible.
func (s *SQLiteStore) DeleteCircle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM circles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete circle: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("circle %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
