// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/teeraphan/wongshare/internal/models"
)

// ErrNotFound is returned when a requested aggregate does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the circle domain. The
// abstraction allows swapping storage backends without touching the service
// layer. Update methods taking field maps write only the supplied fields.
type Store interface {
	// CreateUser persists a new user. The user's ID is populated.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdateUser writes only the supplied profile fields.
	UpdateUser(ctx context.Context, id string, fields map[string]any) error

	// CreateCircle persists a circle aggregate (members and rounds
	// included), populating missing IDs.
	CreateCircle(ctx context.Context, circle *models.Circle) error
	// GetCircle loads the full aggregate.
	GetCircle(ctx context.Context, id string) (*models.Circle, error)
	// ListCircles returns the circles visible to the given role: end-users
	// see circles they sit in, circle admins the ones they own, system
	// admins everything.
	ListCircles(ctx context.Context, role models.Role, userID string) ([]*models.Circle, error)
	// SaveCircle rewrites the full aggregate (circle row, members, rounds).
	// Used for lifecycle transitions; last write wins.
	SaveCircle(ctx context.Context, circle *models.Circle) error
	// UpdateCircle writes only the supplied circle fields.
	UpdateCircle(ctx context.Context, id string, fields map[string]any) error
	// UpdateSlot writes only the supplied fields of one slot.
	UpdateSlot(ctx context.Context, circleID string, slotNumber int, fields map[string]any) error
	DeleteCircle(ctx context.Context, id string) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus) error
	// ListTransactions returns a circle's transactions; roundNumber 0 means
	// all rounds.
	ListTransactions(ctx context.Context, circleID string, roundNumber int) ([]*models.Transaction, error)

	CreatePayout(ctx context.Context, payout *models.Payout) error
	ListPayouts(ctx context.Context, circleID string) ([]*models.Payout, error)

	// Close releases any resources held by the store.
	Close() error
}
