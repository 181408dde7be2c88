package app_test

import (
	"context"
	"errors"
	"sync"

	"room_reservation/internal/domain"
)

// ---- fakes ----

type fakeRecorder struct {
	mu   sync.Mutex
	recs []domain.BookingRecord
	err  error
}

func (f *fakeRecorder) Record(ctx context.Context, rec domain.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return f.err
}

func (f *fakeRecorder) records() []domain.BookingRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.BookingRecord(nil), f.recs...)
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
	dels  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok := dst.(*domain.Stats); ok {
		*d = v.(domain.Stats)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels++
	return nil
}

// brokenStore fails every operation with an unexpected error.
type brokenStore struct{ domain.RoomStore }

var errDisk = errors.New("disk on fire")

func (brokenStore) Load(int) (domain.Room, bool, error) { return domain.Room{}, false, errDisk }

// processorFunc adapts a function to app.Processor.
type processorFunc func(ctx context.Context, req domain.BookingRequest) (domain.Outcome, error)

func (f processorFunc) Process(ctx context.Context, req domain.BookingRequest) (domain.Outcome, error) {
	return f(ctx, req)
}
