package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"room_reservation/internal/adapters/observability"
	"room_reservation/internal/domain"
)

type EngineConfig struct {
	Workers      int
	PollInterval time.Duration
	// DrainCheck is how often AwaitDrain re-checks the queue.
	DrainCheck time.Duration
}

// Engine wires the request queue, the worker pool and the completion signal
// around one store. It is the only entry point for request producers.
type Engine struct {
	store    domain.RoomStore
	queue    *RequestQueue
	pool     *WorkerPool
	complete *Signal
	check    time.Duration

	// outstanding counts submitted requests not yet processed.
	outstanding atomic.Int64
}

func NewEngine(store domain.RoomStore, proc Processor, cfg EngineConfig) *Engine {
	if cfg.DrainCheck <= 0 {
		cfg.DrainCheck = 10 * time.Millisecond
	}
	e := &Engine{
		store:    store,
		queue:    NewRequestQueue(),
		complete: NewSignal(),
		check:    cfg.DrainCheck,
	}
	e.pool = NewWorkerPool(cfg.Workers, cfg.PollInterval, e.queue, tracked{proc, &e.outstanding})
	return e
}

// tracked marks a request done once processing returns, panics included.
type tracked struct {
	Processor
	n *atomic.Int64
}

func (t tracked) Process(ctx context.Context, req domain.BookingRequest) (domain.Outcome, error) {
	defer t.n.Add(-1)
	return t.Processor.Process(ctx, req)
}

func (e *Engine) Start(ctx context.Context) error { return e.pool.Start(ctx) }

// Submit enqueues req, giving it an ID if it has none.
func (e *Engine) Submit(req domain.BookingRequest) (string, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	e.outstanding.Add(1)
	if err := e.queue.Enqueue(req); err != nil {
		e.outstanding.Add(-1)
		return "", err
	}
	observability.SetQueueDepth(e.queue.Len())
	return req.ID, nil
}

// Complete fires the completion signal: no further requests will be submitted.
func (e *Engine) Complete() {
	e.queue.Close()
	e.complete.Fire()
}

func (e *Engine) Completed() <-chan struct{} { return e.complete.Done() }

// AwaitDrain blocks until Complete was called and every queued request has
// been processed, or timeout elapses. Requests left behind by a forced
// shutdown are never processed, so the drain then times out.
func (e *Engine) AwaitDrain(timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(e.check)
	defer tick.Stop()
	for {
		if e.drained() {
			return nil
		}
		select {
		case <-deadline.C:
			if e.drained() {
				return nil
			}
			log.Warn().Dur("timeout", timeout).
				Int("pending", e.queue.Len()).
				Int64("in_flight", e.pool.InFlight()).
				Msg("timeout waiting for requests to complete")
			return domain.ErrDrainTimeout
		case <-tick.C:
		}
	}
}

func (e *Engine) drained() bool {
	return e.complete.Fired() && e.outstanding.Load() == 0
}

// Shutdown stops accepting requests and stops the pool within grace.
func (e *Engine) Shutdown(grace time.Duration) error {
	e.queue.Close()
	return e.pool.Shutdown(grace)
}

func (e *Engine) Pending() int { return e.queue.Len() }

func (e *Engine) Stats() domain.Stats { return e.store.Stats() }
