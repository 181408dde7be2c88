package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"room_reservation/internal/domain"
)

// Submitter is the core's single entry point for request producers.
type Submitter interface {
	Submit(req domain.BookingRequest) (string, error)
	Complete()
}

// Producer feeds requests to a Submitter, spacing arrivals by interval.
type Producer struct {
	sub Submitter
	rl  *rate.Limiter
}

// NewProducer paces one request per interval. A non-positive interval
// disables pacing.
func NewProducer(sub Submitter, interval time.Duration) *Producer {
	lim := rate.NewLimiter(rate.Inf, 1)
	if interval > 0 {
		lim = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Producer{sub: sub, rl: lim}
}

// Run submits reqs in order and fires the completion signal when it stops,
// whether it finished, was cancelled or the queue closed underneath it.
// It returns the number of requests submitted.
func (p *Producer) Run(ctx context.Context, reqs []domain.BookingRequest) (int, error) {
	defer p.sub.Complete()

	n := 0
	for _, r := range reqs {
		if err := p.rl.Wait(ctx); err != nil {
			log.Warn().Err(err).Int("submitted", n).Msg("producer stopped early")
			return n, err
		}
		if _, err := p.sub.Submit(r); err != nil {
			if errors.Is(err, domain.ErrQueueClosed) {
				log.Warn().Int("submitted", n).Msg("queue closed; producer stopping")
			}
			return n, err
		}
		n++
	}
	log.Info().Int("submitted", n).Msg("all requests queued")
	return n, nil
}
