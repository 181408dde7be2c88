package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"room_reservation/internal/adapters/observability"
	"room_reservation/internal/domain"
)

// StatsCacheKey is the cache entry holding the latest statistics snapshot.
const StatsCacheKey = "stats:snapshot"

// BookingCoordinator runs one request through load, validate and commit.
// It never builds a booked snapshot itself; the store's commit is the only write.
type BookingCoordinator struct {
	store    domain.RoomStore
	recorder domain.OutcomeRecorder
	cache    domain.Cache
	now      func() time.Time
}

func NewBookingCoordinator(s domain.RoomStore, rec domain.OutcomeRecorder, cache domain.Cache) *BookingCoordinator {
	return &BookingCoordinator{store: s, recorder: rec, cache: cache, now: time.Now}
}

// Process attempts req exactly once. Rejections are outcomes, not errors;
// the error is non-nil only for invalid arguments or unexpected store failures.
func (c *BookingCoordinator) Process(ctx context.Context, req domain.BookingRequest) (domain.Outcome, error) {
	start := c.now()
	l := log.With().
		Str("request_id", req.ID).
		Int("room", req.RoomNumber).
		Str("guest", req.Guest).
		Logger()
	l.Info().Msg("processing booking request")

	outcome, reason, err := c.process(req)
	observability.ObserveBooking(outcome.String(), c.now().Sub(start))
	logOutcome(l, outcome, reason, err)

	if outcome.Committed() && c.cache != nil {
		// stats changed; drop the cached snapshot
		_ = c.cache.Del(ctx, StatsCacheKey)
	}
	if c.recorder != nil {
		rec := domain.BookingRecord{
			RequestID:   req.ID,
			RoomNumber:  req.RoomNumber,
			Guest:       req.Guest,
			Outcome:     outcome,
			Reason:      reason,
			ProcessedAt: c.now().UTC(),
		}
		if rerr := c.recorder.Record(ctx, rec); rerr != nil {
			l.Warn().Err(rerr).Msg("journal write failed")
		}
	}
	return outcome, err
}

func (c *BookingCoordinator) process(req domain.BookingRequest) (domain.Outcome, string, error) {
	if !req.GuestValid() {
		return domain.OutcomeRejectedInvalid, "guest name is empty", nil
	}
	if _, found, err := c.store.Load(req.RoomNumber); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return domain.OutcomeRejectedInvalid, err.Error(), err
		}
		return domain.OutcomeFault, err.Error(), err
	} else if !found {
		return domain.OutcomeRejectedUnknownRoom, "room not found", nil
	}

	ok, err := c.store.TryCommitBooking(req.RoomNumber, req.Guest)
	switch {
	case err != nil && errors.Is(err, domain.ErrInvalidArgument):
		return domain.OutcomeRejectedInvalid, err.Error(), err
	case err != nil:
		return domain.OutcomeFault, err.Error(), err
	case !ok:
		return domain.OutcomeRejectedUnavailable, "room unavailable", nil
	}
	return domain.OutcomeCommitted, "", nil
}

func logOutcome(l zerolog.Logger, o domain.Outcome, reason string, err error) {
	switch {
	case err != nil && errors.Is(err, domain.ErrInvalidArgument):
		l.Warn().Err(err).Str("outcome", o.String()).Msg("invalid booking request")
	case err != nil:
		l.Error().Err(err).Str("outcome", o.String()).Msg("booking failed")
	case o.Committed():
		l.Info().Str("outcome", o.String()).Msg("room booked")
	default:
		l.Info().Str("outcome", o.String()).Str("reason", reason).Msg("booking rejected")
	}
}
