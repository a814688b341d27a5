package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"canteenq/config"
	"canteenq/internal/assistant"
	"canteenq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore backs all three collections in memory and pushes the full
// collection to its subscriber after every write, own writes included, the
// way the real adapter does.
type fakeStore struct {
	mu      sync.Mutex
	tokens  map[int64]domain.Token
	dish    *domain.Dish
	menu    map[string]domain.MenuItem
	tokenFn func([]domain.Token)
	dishFn  func(*domain.Dish)
	menuFn  func([]domain.MenuItem)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tokens: map[int64]domain.Token{},
		menu:   map[string]domain.MenuItem{},
	}
}

func (s *fakeStore) snapshotTokensLocked() []domain.Token {
	out := make([]domain.Token, 0, len(s.tokens))
	for _, t := range s.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) pushTokens() {
	s.mu.Lock()
	fn := s.tokenFn
	snap := s.snapshotTokensLocked()
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (s *fakeStore) FetchAllTokens(ctx context.Context) ([]domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotTokensLocked(), nil
}

func (s *fakeStore) CreateToken(ctx context.Context, token domain.Token) error {
	s.mu.Lock()
	s.tokens[token.ID] = token
	s.mu.Unlock()
	s.pushTokens()
	return nil
}

func (s *fakeStore) UpdateToken(ctx context.Context, id int64, fields map[string]interface{}) error {
	s.mu.Lock()
	if t, ok := s.tokens[id]; ok {
		if v, ok := fields["status"]; ok {
			t.Status = domain.TokenStatus(v.(string))
		}
		if v, ok := fields["statusChangeTime"]; ok {
			t.StatusChangeTime = v.(time.Time)
		}
		s.tokens[id] = t
	}
	s.mu.Unlock()
	s.pushTokens()
	return nil
}

func (s *fakeStore) RemoveToken(ctx context.Context, id int64) error {
	s.mu.Lock()
	delete(s.tokens, id)
	s.mu.Unlock()
	s.pushTokens()
	return nil
}

func (s *fakeStore) SubscribeTokens(ctx context.Context, fn func([]domain.Token)) (func(), error) {
	s.mu.Lock()
	s.tokenFn = fn
	snap := s.snapshotTokensLocked()
	s.mu.Unlock()
	fn(snap)
	return func() {
		s.mu.Lock()
		s.tokenFn = nil
		s.mu.Unlock()
	}, nil
}

func (s *fakeStore) FetchDish(ctx context.Context) (*domain.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dish, nil
}

func (s *fakeStore) CreateDish(ctx context.Context, dish domain.Dish) error {
	s.mu.Lock()
	s.dish = &dish
	fn := s.dishFn
	s.mu.Unlock()
	if fn != nil {
		fn(&dish)
	}
	return nil
}

func (s *fakeStore) UpdateDish(ctx context.Context, fields map[string]interface{}) error {
	s.mu.Lock()
	if s.dish != nil {
		if v, ok := fields["name"]; ok {
			s.dish.Name = v.(string)
		}
		if v, ok := fields["description"]; ok {
			s.dish.Description = v.(string)
		}
	}
	dish := s.dish
	fn := s.dishFn
	s.mu.Unlock()
	if fn != nil {
		fn(dish)
	}
	return nil
}

func (s *fakeStore) SubscribeDish(ctx context.Context, fn func(*domain.Dish)) (func(), error) {
	s.mu.Lock()
	s.dishFn = fn
	dish := s.dish
	s.mu.Unlock()
	fn(dish)
	return func() {
		s.mu.Lock()
		s.dishFn = nil
		s.mu.Unlock()
	}, nil
}

func (s *fakeStore) snapshotMenuLocked() []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(s.menu))
	for _, item := range s.menu {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) pushMenu() {
	s.mu.Lock()
	fn := s.menuFn
	snap := s.snapshotMenuLocked()
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (s *fakeStore) FetchAllMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotMenuLocked(), nil
}

func (s *fakeStore) CreateMenuItem(ctx context.Context, item domain.MenuItem) error {
	s.mu.Lock()
	s.menu[item.ID] = item
	s.mu.Unlock()
	s.pushMenu()
	return nil
}

func (s *fakeStore) UpdateMenuItem(ctx context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	if item, ok := s.menu[id]; ok {
		if v, ok := fields["isAvailable"]; ok {
			item.IsAvailable = v.(bool)
		}
		s.menu[id] = item
	}
	s.mu.Unlock()
	s.pushMenu()
	return nil
}

func (s *fakeStore) SubscribeMenu(ctx context.Context, fn func([]domain.MenuItem)) (func(), error) {
	s.mu.Lock()
	s.menuFn = fn
	snap := s.snapshotMenuLocked()
	s.mu.Unlock()
	fn(snap)
	return func() {
		s.mu.Lock()
		s.menuFn = nil
		s.mu.Unlock()
	}, nil
}

func TestEngine_TokenLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	engine := NewEngine(st, nil, "", 30*time.Second, 10*time.Minute)
	require.NoError(t, engine.Start(ctx))
	defer engine.Close()

	token, err := engine.Book(ctx, "John Doe", "9876543210")
	require.NoError(t, err)
	assert.Equal(t, int64(101), token.ID)
	assert.Equal(t, domain.StatusWaiting, token.Status)

	_, err = engine.Advance(ctx, token.ID, domain.StatusPreparing)
	require.NoError(t, err)
	ready, err := engine.Advance(ctx, token.ID, domain.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, ready.Status)

	// the stub service echoes the prompt back as the candidate, so the draft
	// carries exactly what the client asked for
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, req.Contents[0].Parts[0].Text)
	}))
	defer srv.Close()

	gateway := assistant.NewClient(config.AssistantConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.5-flash",
		BaseURL: srv.URL,
	})
	message := gateway.DraftNotification(ctx, *ready, assistant.ChannelWhatsApp)
	assert.NotEmpty(t, message)
	assert.Contains(t, message, "John Doe")
	assert.Contains(t, message, "101")

	_, err = engine.Advance(ctx, token.ID, domain.StatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, 1, engine.ClearCompleted(ctx))
	require.Eventually(t, func() bool {
		_, live := engine.FindToken(token.ID)
		return !live
	}, time.Second, 10*time.Millisecond)
}
