package store

import (
	"context"
	"fmt"
	"log"

	"canteenq/internal/domain"
)

func (a *Adapter) FetchAllMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := a.db.Query(ctx, `SELECT id, name, category, price, is_available FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, storeErr("fetch menu", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.IsAvailable); err != nil {
			return nil, storeErr("scan menu item", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("fetch menu", err)
	}
	return items, nil
}

func (a *Adapter) CreateMenuItem(ctx context.Context, item domain.MenuItem) error {
	_, err := a.db.Exec(ctx, `INSERT INTO menu_items (id, name, category, price, is_available) VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.Name, item.Category, item.Price, item.IsAvailable)
	if err != nil {
		return storeErr("create menu item", err)
	}
	a.notifyChanged(ctx, menuChannel)
	return nil
}

func (a *Adapter) UpdateMenuItem(ctx context.Context, id string, fields map[string]interface{}) error {
	set, args, err := buildSetClause(fields, menuColumns)
	if err != nil {
		return storeErr("update menu item", err)
	}
	args = append(args, id)
	cmd, err := a.db.Exec(ctx, fmt.Sprintf(`UPDATE menu_items SET %s WHERE id=$%d`, set, len(args)), args...)
	if err != nil {
		return storeErr("update menu item", err)
	}
	if cmd.RowsAffected() == 0 {
		log.Printf("store: update menu item %q matched nothing", id)
		return nil
	}
	a.notifyChanged(ctx, menuChannel)
	return nil
}

func (a *Adapter) SubscribeMenu(ctx context.Context, fn func([]domain.MenuItem)) (func(), error) {
	return a.subscribe(ctx, menuChannel, func(ctx context.Context) {
		items, err := a.FetchAllMenuItems(ctx)
		if err != nil {
			log.Printf("store: refresh menu snapshot: %v", err)
			return
		}
		fn(items)
	})
}

// SeedMenu loads the default catalog when the collection is empty. Runs once
// at startup; an already-seeded catalog is left alone.
func (a *Adapter) SeedMenu(ctx context.Context) error {
	items, err := a.FetchAllMenuItems(ctx)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return nil
	}
	for _, item := range domain.DefaultMenu() {
		if err := a.CreateMenuItem(ctx, item); err != nil {
			return fmt.Errorf("seed menu: %w", err)
		}
	}
	log.Printf("store: seeded default menu")
	return nil
}
