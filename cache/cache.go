// Package cache stores ranked discussion results under a key with a TTL.
// Expiry is evaluated lazily on read; no backend runs background timers.
package cache

import (
	"context"
	"time"

	"github.com/letmevibethatforyou/discussx"
)

// Store is a key/value store of record lists with per-entry expiry.
type Store interface {
	// Get returns the records stored under key. ok is false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (records []discussx.Record, ok bool, err error)

	// Set replaces the value under key and resets its expiry to now+ttl.
	Set(ctx context.Context, key string, records []discussx.Record, ttl time.Duration) error
}

// Slot is a single fixed-key view over a Store.
type Slot struct {
	store Store
	key   string
	ttl   time.Duration
}

// NewSlot binds store to one key and TTL.
func NewSlot(store Store, key string, ttl time.Duration) *Slot {
	return &Slot{store: store, key: key, ttl: ttl}
}

// Key returns the slot key.
func (s *Slot) Key() string {
	return s.key
}

// Get returns the stored records, or ok=false when absent or expired.
func (s *Slot) Get(ctx context.Context) ([]discussx.Record, bool, error) {
	return s.store.Get(ctx, s.key)
}

// Set replaces the stored records and resets the expiry.
func (s *Slot) Set(ctx context.Context, records []discussx.Record) error {
	return s.store.Set(ctx, s.key, records, s.ttl)
}

func clone(records []discussx.Record) []discussx.Record {
	out := make([]discussx.Record, len(records))
	copy(out, records)
	return out
}
