package deliveries

import (
	"context"
	"time"
)

// DefaultTTL is how long a processed event ID is remembered.
const DefaultTTL = 24 * time.Hour

// Tracker drops platform events that are delivered more than once.
type Tracker struct {
	repo Repository
	ttl  time.Duration
}

func NewTracker(r Repository, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{repo: r, ttl: ttl}
}

// FirstDelivery reports whether the event kind/id is seen for the first time.
// A nil Tracker treats every event as new.
func (t *Tracker) FirstDelivery(ctx context.Context, kind, id string) (bool, error) {
	if t == nil || id == "" {
		return true, nil
	}
	now := time.Now().UTC()
	return t.repo.Claim(ctx, &Delivery{ID: kind + ":" + id, CreatedAt: now, ExpiresAt: now.Add(t.ttl)})
}
