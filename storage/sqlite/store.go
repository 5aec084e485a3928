// Package sqlite provides a single-file SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"restaurant/models"
	"restaurant/storage"
	"restaurant/storage/sqlite/migrations"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists users, the menu and orders in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens the database file at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; transactions queue on the pool instead of
	// failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// New wraps an already opened handle. Migrations are not applied.
func New(sqlDB *sql.DB) *Store {
	return &Store{sqlDB: sqlDB}
}

// DB exposes the handle for maintenance tasks.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Prices are stored in major units, like the original database.
func toMajor(a models.Amount) float64 {
	return float64(a) / 100
}

func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrDuplicate
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	var createdUnix int64
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, CAST(strftime('%s', created_at) AS INTEGER)
		FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = time.Unix(createdUnix, 0).UTC()
	return &u, nil
}

const menuColumns = `id, name, COALESCE(description, ''), CAST(ROUND(price * 100) AS INTEGER),
	category, COALESCE(image_url, ''), available`

func scanMenuItem(row interface{ Scan(...any) error }) (models.MenuItem, error) {
	var it models.MenuItem
	var price int64
	err := row.Scan(&it.ID, &it.Name, &it.Description, &price, &it.Category, &it.ImageURL, &it.Available)
	it.Price = models.Amount(price)
	return it, err
}

func (s *Store) ListAvailableMenu(ctx context.Context, category string) ([]models.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE available = 1`
	var args []any
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = ?`, id)
	it, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &it, nil
}

func (s *Store) SeedMenu(ctx context.Context, items []models.MenuItem) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menu_items (name, description, price, category, image_url, available)
			SELECT ?, ?, ?, ?, ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM menu_items WHERE name = ?)`,
			it.Name, it.Description, toMajor(it.Price), it.Category, it.ImageURL, it.Available, it.Name,
		); err != nil {
			return fmt.Errorf("seed %q: %w", it.Name, err)
		}
	}
	return tx.Commit()
}

func (s *Store) CreateOrder(ctx context.Context, input models.CreateOrderInput) (int64, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, total_amount, status) VALUES (?, ?, ?)`,
		input.UserID, toMajor(input.TotalAmount), input.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order id: %w", err)
	}

	for _, line := range input.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price) VALUES (?, ?, ?, ?)`,
			orderID, line.MenuItemID, line.Quantity, toMajor(line.Price),
		); err != nil {
			return 0, fmt.Errorf("insert order item %d: %w", line.MenuItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit order: %w", err)
	}
	return orderID, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	var total, createdUnix int64
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT id, COALESCE(user_id, 0), CAST(ROUND(total_amount * 100) AS INTEGER),
			COALESCE(status, ''), CAST(strftime('%s', created_at) AS INTEGER)
		FROM orders WHERE id = ?`,
		id,
	).Scan(&o.ID, &o.UserID, &total, &o.Status, &createdUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.TotalAmount = models.Amount(total)
	o.CreatedAt = time.Unix(createdUnix, 0).UTC()

	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, quantity, CAST(ROUND(price * 100) AS INTEGER)
		FROM order_items WHERE order_id = ? ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l models.OrderLine
		var price int64
		if err := rows.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.Quantity, &price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		l.Price = models.Amount(price)
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
