package requests

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"room_reservation/internal/domain"
)

// FetchAll downloads every feed with at most parallel requests in flight.
// Results keep the order of urls so arrival order stays deterministic.
// A feed that fails is logged and skipped; the first such error is returned
// alongside whatever the other feeds produced.
func (c *Client) FetchAll(ctx context.Context, urls []string, parallel int) ([]domain.BookingRequest, []RecordError, error) {
	if parallel <= 0 {
		parallel = 1
	}
	type result struct {
		reqs []domain.BookingRequest
		bad  []RecordError
		err  error
	}
	results := make([]result, len(urls))
	sem := semaphore.NewWeighted(int64(parallel))
	var wg sync.WaitGroup

	for i, u := range urls {
		// acquire before launching; release inside the goroutine
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].err = err
			break
		}
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			defer sem.Release(1)
			reqs, bad, err := c.Fetch(ctx, u)
			if err != nil {
				log.Warn().Str("url", u).Err(err).Msg("feed fetch failed")
			}
			results[i] = result{reqs: reqs, bad: bad, err: err}
		}(i, u)
	}
	wg.Wait()

	var (
		all      []domain.BookingRequest
		allBad   []RecordError
		firstErr error
	)
	for _, r := range results {
		all = append(all, r.reqs...)
		allBad = append(allBad, r.bad...)
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	return all, allBad, firstErr
}
