package store

import (
	"context"
	"fmt"

	"canteenq/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// TokenStore is the adapter contract for the tokens collection. Update and
// Remove are silent no-ops when the id matches nothing; callers that need
// confirmation re-derive state from the next subscription push.
type TokenStore interface {
	FetchAllTokens(ctx context.Context) ([]domain.Token, error)
	CreateToken(ctx context.Context, token domain.Token) error
	UpdateToken(ctx context.Context, id int64, fields map[string]interface{}) error
	RemoveToken(ctx context.Context, id int64) error
	SubscribeTokens(ctx context.Context, fn func([]domain.Token)) (func(), error)
}

// DishStore holds at most one record; FetchDish returns nil when there is no
// special today.
type DishStore interface {
	FetchDish(ctx context.Context) (*domain.Dish, error)
	CreateDish(ctx context.Context, dish domain.Dish) error
	UpdateDish(ctx context.Context, fields map[string]interface{}) error
	SubscribeDish(ctx context.Context, fn func(*domain.Dish)) (func(), error)
}

type MenuStore interface {
	FetchAllMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, id string, fields map[string]interface{}) error
	SubscribeMenu(ctx context.Context, fn func([]domain.MenuItem)) (func(), error)
}

// StoreError marks a failure at the document store so the boundary can turn
// it into a "please retry" response instead of leaking SQL details.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// Adapter backs the three collections with Postgres and pushes change
// notices through Redis pub/sub so every subscriber, including the writer
// itself, re-reads the full collection on each change.
type Adapter struct {
	db  *pgxpool.Pool
	rdb *redis.Client
}

func NewAdapter(db *pgxpool.Pool, rdb *redis.Client) *Adapter {
	return &Adapter{db: db, rdb: rdb}
}

var (
	_ TokenStore = (*Adapter)(nil)
	_ DishStore  = (*Adapter)(nil)
	_ MenuStore  = (*Adapter)(nil)
)
