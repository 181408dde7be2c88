package app

import (
	"context"
	"fmt"
	"time"

	"room_reservation/internal/domain"
)

// QueryService serves read models of the store, reading stats through a cache.
type QueryService struct {
	store    domain.RoomStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s domain.RoomStore, c domain.Cache, ttl time.Duration) *QueryService {
	if c == nil {
		c = NopCache{}
	}
	return &QueryService{store: s, cache: c, cacheTTL: ttl}
}

func (s *QueryService) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	if ok, _ := s.cache.Get(ctx, StatsCacheKey, &st); ok {
		return st, nil
	}
	st = s.store.Stats()
	if ttl := int(s.cacheTTL.Seconds()); ttl > 0 {
		_ = s.cache.Set(ctx, StatsCacheKey, st, ttl)
	}
	return st, nil
}

func (s *QueryService) Rooms(ctx context.Context) []domain.RoomView {
	rooms := s.store.AllRooms()
	out := make([]domain.RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, domain.NewRoomView(r))
	}
	return out
}

// Room looks a room up without counting a load attempt.
func (s *QueryService) Room(ctx context.Context, number int) (domain.RoomView, error) {
	if number <= 0 {
		return domain.RoomView{}, fmt.Errorf("%w: room number must be positive, got %d", domain.ErrInvalidArgument, number)
	}
	for _, r := range s.store.AllRooms() {
		if r.Number() == number {
			return domain.NewRoomView(r), nil
		}
	}
	return domain.RoomView{}, fmt.Errorf("room %d: %w", number, domain.ErrNotFound)
}

// NopCache never hits. Used when no cache is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any, int) error    { return nil }
func (NopCache) Del(context.Context, string) error              { return nil }
