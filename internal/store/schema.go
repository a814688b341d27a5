package store

import "context"

// EnsureSchema creates the backing tables when they are missing so a fresh
// deployment comes up without a separate migration step.
func (a *Adapter) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tokens (
			id BIGINT PRIMARY KEY,
			customer_name TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			status TEXT NOT NULL,
			booking_time TIMESTAMPTZ NOT NULL,
			status_change_time TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS dish_of_the_day (
			name TEXT NOT NULL,
			description TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price TEXT NOT NULL,
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := a.db.Exec(ctx, stmt); err != nil {
			return storeErr("ensure schema", err)
		}
	}
	return nil
}
