// Package postgres provides the PostgreSQL backend on a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"restaurant/models"
	"restaurant/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Store implements storage.Store on a pgx pool. Money columns are NUMERIC
// in major units; queries convert to and from minor units.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)
		RETURNING id`,
		username, email, passwordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, storage.ErrDuplicate
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

const menuColumns = `id, name, COALESCE(description, ''), ROUND(price * 100)::bigint,
	category, COALESCE(image_url, ''), COALESCE(available, true)`

func scanMenuItem(row pgx.Row) (models.MenuItem, error) {
	var it models.MenuItem
	var price int64
	err := row.Scan(&it.ID, &it.Name, &it.Description, &price, &it.Category, &it.ImageURL, &it.Available)
	it.Price = models.Amount(price)
	return it, err
}

func (s *Store) ListAvailableMenu(ctx context.Context, category string) ([]models.MenuItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+menuColumns+` FROM menu_items
		WHERE available AND ($1::text = '' OR category = $1::text)
		ORDER BY id`,
		category,
	)
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
	it, err := scanMenuItem(s.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &it, nil
}

func (s *Store) SeedMenu(ctx context.Context, items []models.MenuItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO menu_items (name, description, price, category, image_url, available)
			SELECT $1::text, $2::text, $3::bigint / 100.0, $4::text, $5::text, $6::boolean
			WHERE NOT EXISTS (SELECT 1 FROM menu_items WHERE name = $1::text)`,
			it.Name, it.Description, int64(it.Price), it.Category, it.ImageURL, it.Available,
		); err != nil {
			return fmt.Errorf("seed %q: %w", it.Name, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) CreateOrder(ctx context.Context, input models.CreateOrderInput) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_amount, status)
		VALUES ($1, $2::bigint / 100.0, $3)
		RETURNING id`,
		input.UserID, int64(input.TotalAmount), input.Status,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for _, line := range input.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price)
			VALUES ($1, $2, $3, $4::bigint / 100.0)`,
			orderID, line.MenuItemID, line.Quantity, int64(line.Price),
		); err != nil {
			return 0, fmt.Errorf("insert order item %d: %w", line.MenuItemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit order: %w", err)
	}
	return orderID, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	var total int64
	err := s.pool.QueryRow(ctx, `
		SELECT id, COALESCE(user_id, 0), ROUND(total_amount * 100)::bigint, COALESCE(status, ''), created_at
		FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.UserID, &total, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.TotalAmount = models.Amount(total)

	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, menu_item_id, quantity, ROUND(price * 100)::bigint
		FROM order_items WHERE order_id = $1 ORDER BY id`,
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
