package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"canteenq/internal/domain"
	"canteenq/internal/kafka"
	"canteenq/internal/store"
)

var ErrTokenNotFound = errors.New("token not found")

type UseCase interface {
	Book(ctx context.Context, name, phone string) (*domain.Token, error)
	Advance(ctx context.Context, id int64, to domain.TokenStatus) (*domain.Token, error)
	ClearCompleted(ctx context.Context) int
	Tokens() []domain.Token
	FindToken(id int64) (*domain.Token, bool)
	View() View
	DishOfTheDay() *domain.Dish
	SetDishOfTheDay(ctx context.Context, dish domain.Dish) error
	MenuItems() []domain.MenuItem
	ToggleMenuItem(ctx context.Context, id string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Stores is the slice of the adapter the engine writes through.
type Stores interface {
	store.TokenStore
	store.DishStore
	store.MenuStore
}

// Engine owns the in-memory view of all three collections. Each subscription
// push replaces the matching snapshot wholesale; there is no merge or
// reconciliation on the read side, last push wins.
type Engine struct {
	store    Stores
	producer Producer

	eventsTopic        string
	notificationsTopic string
	sweepInterval      time.Duration
	readyExpiry        time.Duration
	now                func() time.Time

	mu     sync.RWMutex
	tokens []domain.Token
	dish   *domain.Dish
	menu   []domain.MenuItem

	unsubscribe []func()
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithNotificationsTopic(topic string) Option {
	return func(e *Engine) {
		e.notificationsTopic = topic
	}
}

func NewEngine(st Stores, producer Producer, eventsTopic string, sweepInterval, readyExpiry time.Duration, opts ...Option) *Engine {
	e := &Engine{
		store:         st,
		producer:      producer,
		eventsTopic:   eventsTopic,
		sweepInterval: sweepInterval,
		readyExpiry:   readyExpiry,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start registers the three collection subscriptions. The adapter delivers
// the current snapshot immediately, so the engine is populated on return.
func (e *Engine) Start(ctx context.Context) error {
	subs := []func() (func(), error){
		func() (func(), error) { return e.store.SubscribeTokens(ctx, e.replaceTokens) },
		func() (func(), error) { return e.store.SubscribeDish(ctx, e.replaceDish) },
		func() (func(), error) { return e.store.SubscribeMenu(ctx, e.replaceMenu) },
	}
	for _, sub := range subs {
		unsub, err := sub()
		if err != nil {
			e.Close()
			return fmt.Errorf("start engine: %w", err)
		}
		e.unsubscribe = append(e.unsubscribe, unsub)
	}
	return nil
}

// Close releases all subscriptions. The sweep stops via its own context.
func (e *Engine) Close() {
	for _, unsub := range e.unsubscribe {
		unsub()
	}
	e.unsubscribe = nil
}

func (e *Engine) replaceTokens(tokens []domain.Token) {
	e.mu.Lock()
	e.tokens = tokens
	e.mu.Unlock()
}

func (e *Engine) replaceDish(dish *domain.Dish) {
	e.mu.Lock()
	e.dish = dish
	e.mu.Unlock()
}

func (e *Engine) replaceMenu(items []domain.MenuItem) {
	e.mu.Lock()
	e.menu = items
	e.mu.Unlock()
}

// Book validates the form, assigns the next token number (max existing + 1,
// 101 on an empty queue) and inserts the token optimistically so a booking
// right behind this one sees the id before the store echoes it back. The
// caller gets the token without waiting for that echo.
func (e *Engine) Book(ctx context.Context, name, phone string) (*domain.Token, error) {
	normalized, err := domain.ValidateBooking(name, phone)
	if err != nil {
		return nil, err
	}

	now := e.now()
	e.mu.Lock()
	id := domain.FirstTokenNumber
	for _, t := range e.tokens {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	token := domain.Token{
		ID:               id,
		CustomerName:     strings.TrimSpace(name),
		PhoneNumber:      normalized,
		Status:           domain.StatusWaiting,
		BookingTime:      now,
		StatusChangeTime: now,
	}
	e.tokens = append(e.tokens, token)
	e.mu.Unlock()

	if err := e.store.CreateToken(ctx, token); err != nil {
		e.dropLocal(token.ID)
		return nil, err
	}
	e.publish(ctx, "token_created", token, false)
	return &token, nil
}

// Advance is the generic set-status command. Only the forward transitions
// WAITING→PREPARING→READY→COMPLETED are accepted; anything else is rejected
// instead of silently corrupting the lifecycle.
func (e *Engine) Advance(ctx context.Context, id int64, to domain.TokenStatus) (*domain.Token, error) {
	now := e.now()

	e.mu.Lock()
	idx := -1
	for i := range e.tokens {
		if e.tokens[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return nil, ErrTokenNotFound
	}
	from := e.tokens[idx].Status
	prevStamp := e.tokens[idx].StatusChangeTime
	if !domain.ValidTransition(from, to) {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, from, to)
	}
	e.tokens[idx].Status = to
	e.tokens[idx].StatusChangeTime = now
	token := e.tokens[idx]
	e.mu.Unlock()

	err := e.store.UpdateToken(ctx, id, map[string]interface{}{
		"status":           string(to),
		"statusChangeTime": now,
	})
	if err != nil {
		// The store never changed, so no subscription push will arrive to
		// correct the snapshot. Roll back the optimistic mutation or the
		// retried command hits the already-advanced status.
		e.revertStatus(id, from, prevStamp)
		return nil, err
	}
	e.publish(ctx, "token_status_changed", token, to == domain.StatusReady)
	return &token, nil
}

// ClearCompleted issues one delete per COMPLETED token as a fire-and-forget
// batch: the deletes run to completion on their own and the authoritative
// state arrives via the subscription push. Returns how many were submitted.
func (e *Engine) ClearCompleted(ctx context.Context) int {
	e.mu.RLock()
	var completed []domain.Token
	for _, t := range e.tokens {
		if t.Status == domain.StatusCompleted {
			completed = append(completed, t)
		}
	}
	e.mu.RUnlock()

	for _, t := range completed {
		t := t
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.store.RemoveToken(ctx, t.ID); err != nil {
				log.Printf("queue: clear completed token %d: %v", t.ID, err)
				return
			}
			e.publish(ctx, "token_cleared", t, false)
		}()
	}
	return len(completed)
}

func (e *Engine) SetDishOfTheDay(ctx context.Context, dish domain.Dish) error {
	// Upsert against the store, not the cached view: update when a record
	// exists, create otherwise.
	current, err := e.store.FetchDish(ctx)
	if err != nil {
		return err
	}
	if current != nil {
		err = e.store.UpdateDish(ctx, map[string]interface{}{
			"name":        dish.Name,
			"description": dish.Description,
		})
	} else {
		err = e.store.CreateDish(ctx, dish)
	}
	if err != nil {
		return err
	}
	e.mu.Lock()
	d := dish
	e.dish = &d
	e.mu.Unlock()
	return nil
}

// ToggleMenuItem flips isAvailable on the matching item. An unknown id is a
// no-op, matching the adapter's lookup-miss contract.
func (e *Engine) ToggleMenuItem(ctx context.Context, id string) error {
	e.mu.RLock()
	var current *domain.MenuItem
	for i := range e.menu {
		if e.menu[i].ID == id {
			item := e.menu[i]
			current = &item
			break
		}
	}
	e.mu.RUnlock()
	if current == nil {
		return nil
	}
	return e.store.UpdateMenuItem(ctx, id, map[string]interface{}{
		"isAvailable": !current.IsAvailable,
	})
}

func (e *Engine) Tokens() []domain.Token {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Token, len(e.tokens))
	copy(out, e.tokens)
	return out
}

func (e *Engine) FindToken(id int64) (*domain.Token, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, t := range e.tokens {
		if t.ID == id {
			token := t
			return &token, true
		}
	}
	return nil, false
}

func (e *Engine) DishOfTheDay() *domain.Dish {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.dish == nil {
		return nil
	}
	dish := *e.dish
	return &dish
}

func (e *Engine) MenuItems() []domain.MenuItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.MenuItem, len(e.menu))
	copy(out, e.menu)
	return out
}

func (e *Engine) revertStatus(id int64, status domain.TokenStatus, stamp time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.tokens {
		if e.tokens[i].ID == id {
			e.tokens[i].Status = status
			e.tokens[i].StatusChangeTime = stamp
			return
		}
	}
}

func (e *Engine) dropLocal(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.tokens {
		if e.tokens[i].ID == id {
			e.tokens = append(e.tokens[:i], e.tokens[i+1:]...)
			return
		}
	}
}

func (e *Engine) publish(ctx context.Context, eventType string, token domain.Token, notify bool) {
	if e.producer == nil || e.eventsTopic == "" {
		return
	}
	event := kafka.TokenEvent{
		Type:         eventType,
		TokenID:      token.ID,
		CustomerName: token.CustomerName,
		PhoneNumber:  token.PhoneNumber,
		Status:       string(token.Status),
		ChangedAt:    token.StatusChangeTime,
	}
	key := strconv.FormatInt(token.ID, 10)
	if err := e.producer.Publish(ctx, e.eventsTopic, key, event); err != nil {
		log.Printf("queue: publish %s for token %d: %v", eventType, token.ID, err)
	}
	if notify && e.notificationsTopic != "" {
		if err := e.producer.Publish(ctx, e.notificationsTopic, key, event); err != nil {
			log.Printf("queue: publish notification for token %d: %v", token.ID, err)
		}
	}
}

var _ UseCase = (*Engine)(nil)
