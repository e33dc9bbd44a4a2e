package state

import "time"

// Windows for the freshness caches. Per-item category lookups stay valid
// for five minutes; shop-scoped refetches (orders, shop-by-owner) for
// thirty seconds.
const (
	ItemWindow  = 5 * time.Minute
	ScopeWindow = 30 * time.Second
)

// Entry is a cached value with its fetch timestamp.
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
}

// NewEntry records value as fetched at now.
func NewEntry[T any](value T, now time.Time) Entry[T] {
	return Entry[T]{Value: value, FetchedAt: now}
}

// Fresh reports whether the entry was fetched within window of now.
// The zero entry is never fresh.
func (e Entry[T]) Fresh(window time.Duration, now time.Time) bool {
	if e.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(e.FetchedAt) < window
}
