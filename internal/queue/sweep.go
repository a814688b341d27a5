package queue

import (
	"context"
	"log"
	"time"

	"canteenq/internal/domain"
)

// Run drives the auto-expiry sweep until the context is canceled. The
// ticker is released on return so a torn-down engine leaks no ticks.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Sweep(ctx)
		}
	}
}

// Sweep promotes READY tokens whose status is older than the expiry window
// to COMPLETED with a fresh stamp. The local copy is restamped first, which
// keeps the sweep idempotent: a token completed on this tick cannot match
// again before the store echoes the update back.
func (e *Engine) Sweep(ctx context.Context) {
	now := e.now()

	e.mu.Lock()
	var stale []domain.Token
	for i := range e.tokens {
		t := &e.tokens[i]
		if t.Status == domain.StatusReady && now.Sub(t.StatusChangeTime) > e.readyExpiry {
			t.Status = domain.StatusCompleted
			t.StatusChangeTime = now
			stale = append(stale, *t)
		}
	}
	e.mu.Unlock()

	for _, t := range stale {
		err := e.store.UpdateToken(ctx, t.ID, map[string]interface{}{
			"status":           string(domain.StatusCompleted),
			"statusChangeTime": now,
		})
		if err != nil {
			log.Printf("queue: auto-complete token %d: %v", t.ID, err)
			continue
		}
		e.publish(ctx, "token_status_changed", t, false)
	}
	if len(stale) > 0 {
		log.Printf("queue: auto-completed %d stale READY tokens", len(stale))
	}
}
