// Package pubsub fans controller events out to the front panel and the
// event recorder. Delivery is best-effort: a subscriber that cannot keep up
// loses messages rather than stalling the control loop.
package pubsub

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var plog zerolog.Logger

func init() {
	plog = log.With().Str("component", "pubsub").Logger()
}

type SubscriptionID int64

type Pubsub[T any] struct {
	mu          sync.RWMutex
	nextID      SubscriptionID
	subscribers map[SubscriptionID]chan T
}

func New[T any]() *Pubsub[T] {
	return &Pubsub[T]{
		subscribers: make(map[SubscriptionID]chan T),
	}
}

// Subscribe registers a new subscriber. The channel is buffered so slow
// consumers don't immediately start dropping.
func (ps *Pubsub[T]) Subscribe() (SubscriptionID, <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan T, 16)
	id := ps.nextID
	ps.subscribers[id] = ch
	ps.nextID++

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unsubscribing
// twice is a no-op.
func (ps *Pubsub[T]) Unsubscribe(id SubscriptionID) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch, ok := ps.subscribers[id]
	if !ok {
		return
	}

	delete(ps.subscribers, id)
	close(ch)
}

// Publish delivers msg to every subscriber without blocking the caller.
func (ps *Pubsub[T]) Publish(msg T) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for id, ch := range ps.subscribers {
		select {
		case ch <- msg:
		default:
			plog.Warn().
				Int64("subscription_id", int64(id)).
				Msg("Message dropped, subscriber too slow")
		}
	}
}
