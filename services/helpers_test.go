package services

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"restaurant/models"
	"restaurant/storage/sqlite"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	store   *sqlite.Store
	auth    *Auth
	catalog *Catalog
	ledger  *Ledger
}

// newFixture opens a seeded SQLite database in a temp dir.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "restaurant.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	log := quietLogger()
	f := &fixture{
		store:   store,
		auth:    NewAuth(store, log, bcrypt.MinCost),
		catalog: NewCatalog(store),
		ledger:  NewLedger(store, log),
	}
	if err := f.catalog.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return f
}

func (f *fixture) register(t *testing.T, username string) int64 {
	t.Helper()
	id, err := f.auth.Register(context.Background(), username, username+"@example.com", "secret-"+username)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return id
}

func (f *fixture) item(t *testing.T, id int64) models.MenuItem {
	t.Helper()
	it, err := f.catalog.Item(context.Background(), id)
	if err != nil {
		t.Fatalf("item %d: %v", id, err)
	}
	return *it
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}
