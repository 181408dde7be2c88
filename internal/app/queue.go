package app

import (
	"context"
	"sync"
	"time"

	"room_reservation/internal/domain"
)

// RequestQueue is an unbounded FIFO of booking requests. Enqueue never
// blocks on capacity; Poll waits a bounded time for an item.
type RequestQueue struct {
	mu     sync.Mutex
	items  []domain.BookingRequest
	closed bool
	// ready holds one token while items is non-empty.
	ready chan struct{}
}

func NewRequestQueue() *RequestQueue {
	return &RequestQueue{ready: make(chan struct{}, 1)}
}

// Enqueue appends req. It fails with ErrQueueClosed after Close.
func (q *RequestQueue) Enqueue(req domain.BookingRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return domain.ErrQueueClosed
	}
	q.items = append(q.items, req)
	q.signal()
	return nil
}

// Poll returns the oldest request, waiting at most timeout for one to arrive.
// ok is false on timeout or when ctx is done.
func (q *RequestQueue) Poll(ctx context.Context, timeout time.Duration) (domain.BookingRequest, bool) {
	if req, ok := q.tryDequeue(); ok {
		return req, true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return domain.BookingRequest{}, false
		case <-t.C:
			return q.tryDequeue()
		case <-q.ready:
			if req, ok := q.tryDequeue(); ok {
				return req, true
			}
		}
	}
}

func (q *RequestQueue) tryDequeue() (domain.BookingRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return domain.BookingRequest{}, false
	}
	req := q.items[0]
	q.items[0] = domain.BookingRequest{}
	q.items = q.items[1:]
	if len(q.items) > 0 {
		q.signal()
	}
	return req, true
}

// signal must be called with mu held.
func (q *RequestQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *RequestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further Enqueue calls. Queued items can still be polled.
func (q *RequestQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Signal is a one-shot event. Fire is idempotent.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

func NewSignal() *Signal { return &Signal{ch: make(chan struct{})} }

func (s *Signal) Fire() { s.once.Do(func() { close(s.ch) }) }

func (s *Signal) Done() <-chan struct{} { return s.ch }

func (s *Signal) Fired() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
