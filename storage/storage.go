// Package storage defines the persistence contract shared by the SQLite and
// PostgreSQL backends.
package storage

import (
	"context"
	"errors"

	"restaurant/models"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("storage: duplicate key")
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("storage: not found")
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// MenuStore reads the catalog.
type MenuStore interface {
	// ListAvailableMenu returns available items; an empty category means all.
	ListAvailableMenu(ctx context.Context, category string) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
	// SeedMenu inserts each item whose name is not present yet.
	SeedMenu(ctx context.Context, items []models.MenuItem) error
}

// OrderStore records orders.
type OrderStore interface {
	// CreateOrder writes the order row and all its lines in one transaction.
	CreateOrder(ctx context.Context, input models.CreateOrderInput) (int64, error)
	// GetOrder returns the order with its lines.
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
}

// Store is the full backend used by the services.
type Store interface {
	UserStore
	MenuStore
	OrderStore
	Close() error
}
