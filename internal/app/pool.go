package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"room_reservation/internal/adapters/observability"
	"room_reservation/internal/domain"
)

// Processor handles one request. BookingCoordinator is the production one.
type Processor interface {
	Process(ctx context.Context, req domain.BookingRequest) (domain.Outcome, error)
}

// WorkerPool runs a fixed number of workers draining a RequestQueue.
type WorkerPool struct {
	size  int
	poll  time.Duration
	queue *RequestQueue
	proc  Processor

	stopping atomic.Bool
	inFlight atomic.Int64

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	g       *errgroup.Group
	done    chan struct{}

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewWorkerPool builds a pool of size workers that wait at most poll per dequeue.
func NewWorkerPool(size int, poll time.Duration, q *RequestQueue, p Processor) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	return &WorkerPool{size: size, poll: poll, queue: q, proc: p}
}

// Start spins up the workers. Cancelling ctx stops them as if the shutdown
// grace period had elapsed. Calling Start twice is an error.
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return errors.New("worker pool already started")
	}
	p.started = true

	wctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.g = new(errgroup.Group)
	p.done = make(chan struct{})
	for i := 1; i <= p.size; i++ {
		id := i
		p.g.Go(func() error {
			p.run(wctx, id)
			return nil
		})
	}
	go func() {
		_ = p.g.Wait()
		close(p.done)
	}()
	log.Info().Int("workers", p.size).Dur("poll", p.poll).Msg("worker pool started")
	return nil
}

func (p *WorkerPool) run(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			return
		}
		req, ok := p.queue.Poll(ctx, p.poll)
		observability.SetQueueDepth(p.queue.Len())
		if !ok {
			if p.stopping.Load() && p.queue.Len() == 0 {
				return
			}
			continue
		}
		p.handle(ctx, id, req)
	}
}

// handle processes one request. Failures are logged and never end the worker.
// The item runs to completion even if the pool is being force-cancelled.
func (p *WorkerPool) handle(ctx context.Context, id int, req domain.BookingRequest) {
	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			p.fault(id, req, fmt.Errorf("panic: %v", r))
		}
	}()

	_, err := p.proc.Process(context.WithoutCancel(ctx), req)
	if err != nil && !errors.Is(err, domain.ErrInvalidArgument) {
		p.fault(id, req, err)
	}
}

func (p *WorkerPool) fault(id int, req domain.BookingRequest, cause error) {
	observability.ObserveFault()
	f := &domain.WorkerFault{Worker: id, RequestID: req.ID, Cause: cause}
	log.Error().Err(f).Int("worker", id).Int("room", req.RoomNumber).Msg("error processing request")
}

// InFlight is the number of requests currently being processed.
func (p *WorkerPool) InFlight() int64 { return p.inFlight.Load() }

// Shutdown stops the pool: workers finish the queued items and exit. If they
// are not done within grace, they are cancelled and ErrShutdownTimeout is
// returned once the in-flight items have completed.
func (p *WorkerPool) Shutdown(grace time.Duration) error {
	p.shutdownOnce.Do(func() {
		p.stopping.Store(true)

		p.mu.Lock()
		started, done, cancel := p.started, p.done, p.cancel
		p.mu.Unlock()
		if !started {
			return
		}

		t := time.NewTimer(grace)
		defer t.Stop()
		select {
		case <-done:
		case <-t.C:
			cancel()
			<-done
			p.shutdownErr = domain.ErrShutdownTimeout
			log.Warn().Dur("grace", grace).Int("pending", p.queue.Len()).Msg("workers cancelled after grace period")
		}
		cancel()
		log.Info().Msg("worker pool stopped")
	})
	return p.shutdownErr
}
