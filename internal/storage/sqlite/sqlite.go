// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/teeraphan/wongshare/internal/models"
	"github.com/teeraphan/wongshare/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser persists a new user, generating the ID and timestamp.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, phone, risk_score, credit_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role),
		user.Phone, user.RiskScore, user.CreditScore, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, phone, risk_score, credit_score, created_at
		 FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.Phone, &user.RiskScore, &user.CreditScore, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// userColumns whitelists the profile fields UpdateUser may touch.
var userColumns = map[string]string{
	"name":        "name",
	"phone":       "phone",
	"riskScore":   "risk_score",
	"creditScore": "credit_score",
	"role":        "role",
}

// UpdateUser writes only the supplied profile fields.
func (s *SQLiteStore) UpdateUser(ctx context.Context, id string, fields map[string]any) error {
	return s.partialUpdate(ctx, "users", userColumns, fields, "id = ?", id)
}

// partialUpdate builds an UPDATE touching only the supplied, whitelisted
// fields. Unknown field names are an error rather than silently dropped.
func (s *SQLiteStore) partialUpdate(ctx context.Context, table string, columns map[string]string, fields map[string]any, where string, whereArgs ...any) error {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+len(whereArgs))
	for _, name := range names {
		col, ok := columns[name]
		if !ok {
			return fmt.Errorf("unknown field %q for %s", name, table)
		}
		sets = append(sets, col+" = ?")
		args = append(args, fields[name])
	}
	args = append(args, whereArgs...)

	res, err := s.db.ExecContext(ctx,
		"UPDATE "+table+" SET "+strings.Join(sets, ", ")+" WHERE "+where, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", table, storage.ErrNotFound)
	}
	return nil
}
