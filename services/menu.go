package services

import (
	"context"
	"errors"

	"restaurant/models"
	"restaurant/storage"
)

// Catalog is the read-only view of the menu.
type Catalog struct {
	store storage.MenuStore
}

func NewCatalog(store storage.MenuStore) *Catalog {
	return &Catalog{store: store}
}

// ListAvailable returns available items, narrowed to category unless it is empty.
func (c *Catalog) ListAvailable(ctx context.Context, category string) ([]models.MenuItem, error) {
	items, err := c.store.ListAvailableMenu(ctx, category)
	if err != nil {
		return nil, storageErr("list menu", err)
	}
	return items, nil
}

// Categories returns the distinct categories of available items in menu order.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	items, err := c.ListAvailable(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var cats []string
	for _, it := range items {
		if !seen[it.Category] {
			seen[it.Category] = true
			cats = append(cats, it.Category)
		}
	}
	return cats, nil
}

// Item returns one available item with its current price.
func (c *Catalog) Item(ctx context.Context, id int64) (*models.MenuItem, error) {
	it, err := c.store.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.ErrMenuItemNotFound
		}
		return nil, storageErr("get menu item", err)
	}
	if !it.Available {
		return nil, models.ErrMenuItemNotFound
	}
	return it, nil
}

// Seed loads the built-in catalog, skipping items already present.
func (c *Catalog) Seed(ctx context.Context) error {
	if err := c.store.SeedMenu(ctx, models.SeedMenu); err != nil {
		return storageErr("seed menu", err)
	}
	return nil
}
