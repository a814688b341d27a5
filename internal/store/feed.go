package store

import (
	"context"
	"log"
	"sync"
)

const (
	tokensChannel = "canteenq:changed:tokens"
	dishChannel   = "canteenq:changed:dish"
	menuChannel   = "canteenq:changed:menu"
)

// notifyChanged is called after every successful write, own writes included.
// A failed publish only loses a push; the data is already committed.
func (a *Adapter) notifyChanged(ctx context.Context, channel string) {
	if err := a.rdb.Publish(ctx, channel, "changed").Err(); err != nil {
		log.Printf("store: publish change notice on %s: %v", channel, err)
	}
}

// subscribe listens on one collection channel and calls deliver on every
// change notice, plus once up front so subscribers start from the current
// snapshot. deliver re-reads the full collection itself; a failed read logs
// and leaves the subscriber's previous state intact. Channels for different
// collections are independent, delivery order across them is not synchronized.
func (a *Adapter) subscribe(ctx context.Context, channel string, deliver func(context.Context)) (func(), error) {
	sub := a.rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, storeErr("subscribe "+channel, err)
	}

	deliver(ctx)

	done := make(chan struct{})
	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				deliver(ctx)
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := sub.Close(); err != nil {
				log.Printf("store: close subscription on %s: %v", channel, err)
			}
		})
	}
	return unsubscribe, nil
}
