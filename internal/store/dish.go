package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"canteenq/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (a *Adapter) FetchDish(ctx context.Context) (*domain.Dish, error) {
	row := a.db.QueryRow(ctx, `SELECT name, description FROM dish_of_the_day LIMIT 1`)
	var d domain.Dish
	if err := row.Scan(&d.Name, &d.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("fetch dish", err)
	}
	return &d, nil
}

func (a *Adapter) CreateDish(ctx context.Context, dish domain.Dish) error {
	_, err := a.db.Exec(ctx, `INSERT INTO dish_of_the_day (name, description) VALUES ($1, $2)`, dish.Name, dish.Description)
	if err != nil {
		return storeErr("create dish", err)
	}
	a.notifyChanged(ctx, dishChannel)
	return nil
}

// UpdateDish merges fields into the single dish record. With no record
// present this matches nothing and stays silent, same as the other
// collections.
func (a *Adapter) UpdateDish(ctx context.Context, fields map[string]interface{}) error {
	set, args, err := buildSetClause(fields, dishColumns)
	if err != nil {
		return storeErr("update dish", err)
	}
	cmd, err := a.db.Exec(ctx, fmt.Sprintf(`UPDATE dish_of_the_day SET %s`, set), args...)
	if err != nil {
		return storeErr("update dish", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil
	}
	a.notifyChanged(ctx, dishChannel)
	return nil
}

func (a *Adapter) SubscribeDish(ctx context.Context, fn func(*domain.Dish)) (func(), error) {
	return a.subscribe(ctx, dishChannel, func(ctx context.Context) {
		dish, err := a.FetchDish(ctx)
		if err != nil {
			log.Printf("store: refresh dish snapshot: %v", err)
			return
		}
		fn(dish)
	})
}
