package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database. They run on
// startup to ensure tables exist. Money columns are TEXT: decimal amounts
// round-trip through their string form, never floats.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    risk_score INTEGER NOT NULL DEFAULT 0,
    credit_score INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS circles (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    principal TEXT NOT NULL,
    total_slots INTEGER NOT NULL,
    type TEXT NOT NULL,
    bidding_type TEXT NOT NULL,
    status TEXT NOT NULL,
    min_bid TEXT NOT NULL,
    bid_step TEXT NOT NULL,
    admin_fee TEXT NOT NULL,
    fine_rate TEXT NOT NULL,
    period TEXT NOT NULL,
    period_interval INTEGER NOT NULL DEFAULT 1,
    start_date INTEGER NOT NULL,
    next_due_date INTEGER NOT NULL,
    pay_window_start TEXT NOT NULL DEFAULT '',
    pay_window_end TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS circle_members (
    id TEXT PRIMARY KEY,
    circle_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    slot_number INTEGER NOT NULL,
    status TEXT NOT NULL,
    won_round INTEGER NOT NULL DEFAULT 0,
    bid_amount TEXT NOT NULL,
    fixed_due_amount TEXT NOT NULL,
    pid_ton_amount TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    UNIQUE (circle_id, slot_number),
    FOREIGN KEY (circle_id) REFERENCES circles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    circle_id TEXT NOT NULL,
    round_number INTEGER NOT NULL,
    date INTEGER NOT NULL,
    status TEXT NOT NULL,
    winner_id TEXT NOT NULL DEFAULT '',
    bid_amount TEXT NOT NULL,
    total_pot TEXT NOT NULL,
    UNIQUE (circle_id, round_number),
    FOREIGN KEY (circle_id) REFERENCES circles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    circle_id TEXT NOT NULL,
    round_number INTEGER NOT NULL,
    member_id TEXT NOT NULL,
    expected_amount TEXT NOT NULL,
    paid_amount TEXT NOT NULL,
    status TEXT NOT NULL,
    slip_url TEXT NOT NULL DEFAULT '',
    is_fine INTEGER NOT NULL DEFAULT 0,
    is_closing_balance INTEGER NOT NULL DEFAULT 0,
    note TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (circle_id) REFERENCES circles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payouts (
    id TEXT PRIMARY KEY,
    circle_id TEXT NOT NULL,
    round_number INTEGER NOT NULL,
    member_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    slip_url TEXT NOT NULL DEFAULT '',
    note TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (circle_id) REFERENCES circles(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_circle_members_circle_id ON circle_members(circle_id);
CREATE INDEX IF NOT EXISTS idx_circle_members_member_id ON circle_members(member_id);
CREATE INDEX IF NOT EXISTS idx_rounds_circle_id ON rounds(circle_id);
CREATE INDEX IF NOT EXISTS idx_transactions_circle_round ON transactions(circle_id, round_number);
CREATE INDEX IF NOT EXISTS idx_payouts_circle_id ON payouts(circle_id);
CREATE INDEX IF NOT EXISTS idx_circles_owner_id ON circles(owner_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
