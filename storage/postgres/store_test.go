package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"restaurant/db"
	"restaurant/models"
	"restaurant/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore connects to TEST_DATABASE_URL, applies migrations and
// empties the tables. Skips when the variable is not set.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}
	ctx := context.Background()
	pool, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.ApplyMigrations(ctx, pool, nil))
	_, err = pool.Exec(ctx, `TRUNCATE order_items, orders, menu_items, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return New(pool)
}

func TestUsersIntegration(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, "ali", "ali@example.com", "hash")
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, "ali", "x@example.com", "hash")
	assert.ErrorIs(t, err, storage.ErrDuplicate)
	_, err = store.CreateUser(ctx, "x", "ali@example.com", "hash")
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	u, err := store.GetUserByUsername(ctx, "ali")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.WithinDuration(t, time.Now(), u.CreatedAt, time.Minute)

	_, err = store.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMenuAndOrdersIntegration(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedMenu(ctx, models.SeedMenu))
	require.NoError(t, store.SeedMenu(ctx, models.SeedMenu))
	items, err := store.ListAvailableMenu(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, len(models.SeedMenu))
	assert.Equal(t, models.Major(1400), items[0].Price)

	burgers, err := store.ListAvailableMenu(ctx, models.CategoryBurgers)
	require.NoError(t, err)
	assert.Len(t, burgers, 2)

	userID, err := store.CreateUser(ctx, "ali", "ali@example.com", "hash")
	require.NoError(t, err)

	orderID, err := store.CreateOrder(ctx, models.CreateOrderInput{
		UserID:      userID,
		TotalAmount: models.Major(3300),
		Status:      models.OrderStatusPending,
		Lines: []models.OrderLine{
			{MenuItemID: items[0].ID, Quantity: 2, Price: models.Major(1400)},
			{MenuItemID: burgers[1].ID, Quantity: 1, Price: models.Major(500)},
		},
	})
	require.NoError(t, err)

	o, err := store.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.Major(3300), o.TotalAmount)
	assert.Len(t, o.Lines, 2)

	// A line pointing at a missing menu item aborts the whole order.
	_, err = store.CreateOrder(ctx, models.CreateOrderInput{
		UserID:      userID,
		TotalAmount: 100,
		Status:      models.OrderStatusPending,
		Lines: []models.OrderLine{
			{MenuItemID: items[0].ID, Quantity: 1, Price: 100},
			{MenuItemID: 999999, Quantity: 1, Price: 100},
		},
	})
	require.Error(t, err)
	var orders int
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orders))
	assert.Equal(t, 1, orders)
}
