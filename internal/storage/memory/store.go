// Package memory holds the volatile, process-lifetime room store.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"room_reservation/internal/domain"
)

// slot holds the current snapshot of one room. Every transition is a
// compare-and-swap on the pointer, so a write only lands if nothing else
// replaced the snapshot since it was read.
type slot struct {
	cur atomic.Pointer[domain.Room]
}

// Store is a thread-safe keyed container of room snapshots.
// The key set is fixed at construction; only the snapshots change.
type Store struct {
	seedOnce sync.Once
	inv      []domain.RoomSpec
	rooms    map[int]*slot
	numbers  []int // sorted

	loadAttempts       atomic.Int64
	successfulBookings atomic.Int64

	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the booking timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds a store seeded with inv. An invalid spec is a programming
// error in the inventory and is returned as ErrInvalidArgument.
func New(inv []domain.RoomSpec, opts ...Option) (*Store, error) {
	s := &Store{inv: inv, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if err := s.Seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewDefault builds a store over domain.DefaultInventory.
func NewDefault(opts ...Option) *Store {
	s, err := New(domain.DefaultInventory(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default inventory: %v", err))
	}
	return s
}

// Seed populates the inventory. Only the first call has any effect.
func (s *Store) Seed() error {
	var err error
	s.seedOnce.Do(func() {
		rooms := make(map[int]*slot, len(s.inv))
		for _, spec := range s.inv {
			r, e := domain.NewRoom(spec)
			if e != nil {
				err = e
				return
			}
			if _, dup := rooms[r.Number()]; dup {
				err = fmt.Errorf("%w: duplicate room %d", domain.ErrInvalidArgument, r.Number())
				return
			}
			sl := &slot{}
			sl.cur.Store(&r)
			rooms[r.Number()] = sl
		}
		numbers := make([]int, 0, len(rooms))
		for n := range rooms {
			numbers = append(numbers, n)
		}
		sort.Ints(numbers)
		s.rooms, s.numbers = rooms, numbers
	})
	return err
}

func (s *Store) Load(roomNumber int) (domain.Room, bool, error) {
	if roomNumber <= 0 {
		return domain.Room{}, false, fmt.Errorf("%w: room number must be positive, got %d", domain.ErrInvalidArgument, roomNumber)
	}
	s.loadAttempts.Add(1)
	sl, ok := s.rooms[roomNumber]
	if !ok {
		return domain.Room{}, false, nil
	}
	return *sl.cur.Load(), true, nil
}

// TryCommitBooking performs load-check-replace as one atomic step on the
// room's slot. Among concurrent callers for the same room at most one sees
// the room available and wins.
func (s *Store) TryCommitBooking(roomNumber int, guest string) (bool, error) {
	if roomNumber <= 0 {
		return false, fmt.Errorf("%w: room number must be positive, got %d", domain.ErrInvalidArgument, roomNumber)
	}
	sl, ok := s.rooms[roomNumber]
	if !ok {
		return false, nil
	}
	for {
		cur := sl.cur.Load()
		if !cur.Available() {
			return false, nil
		}
		next, err := cur.Book(guest, s.now())
		if err != nil {
			return false, err
		}
		if sl.cur.CompareAndSwap(cur, &next) {
			s.successfulBookings.Add(1)
			return true, nil
		}
		// lost the race to another transition; re-read and decide again
	}
}

func (s *Store) Unbook(roomNumber int) (bool, error) {
	if roomNumber <= 0 {
		return false, fmt.Errorf("%w: room number must be positive, got %d", domain.ErrInvalidArgument, roomNumber)
	}
	sl, ok := s.rooms[roomNumber]
	if !ok {
		return false, nil
	}
	for {
		cur := sl.cur.Load()
		if cur.Available() {
			return false, nil
		}
		next := cur.Unbook()
		if sl.cur.CompareAndSwap(cur, &next) {
			return true, nil
		}
	}
}

// IsAvailable reports availability without counting a load attempt.
func (s *Store) IsAvailable(roomNumber int) bool {
	sl, ok := s.rooms[roomNumber]
	return ok && sl.cur.Load().Available()
}

// AllRooms returns a fresh copy of every snapshot ordered by room number.
// Rooms are values, so nothing done to the slice reaches the store.
func (s *Store) AllRooms() []domain.Room {
	out := make([]domain.Room, 0, len(s.numbers))
	for _, n := range s.numbers {
		out = append(out, *s.rooms[n].cur.Load())
	}
	return out
}

func (s *Store) AvailableCount() int {
	n := 0
	for _, sl := range s.rooms {
		if sl.cur.Load().Available() {
			n++
		}
	}
	return n
}

func (s *Store) LoadAttempts() int64       { return s.loadAttempts.Load() }
func (s *Store) SuccessfulBookings() int64 { return s.successfulBookings.Load() }

// SuccessRate is successfulBookings / loadAttempts, or 0 before any load.
// The two counters are read independently.
func (s *Store) SuccessRate() float64 {
	return rate(s.successfulBookings.Load(), s.loadAttempts.Load())
}

func (s *Store) Stats() domain.Stats {
	attempts := s.loadAttempts.Load()
	ok := s.successfulBookings.Load()
	st := domain.Stats{
		LoadAttempts:       attempts,
		SuccessfulBookings: ok,
		SuccessRate:        rate(ok, attempts),
		Rooms:              make([]domain.RoomStats, 0, len(s.numbers)),
	}
	for _, r := range s.AllRooms() {
		if r.Available() {
			st.AvailableRooms++
		}
		st.Rooms = append(st.Rooms, domain.RoomStats{
			Number:       r.Number(),
			Type:         r.Type(),
			Price:        r.Price(),
			Available:    r.Available(),
			BookingCount: r.BookingCount(),
		})
	}
	return st
}

func rate(ok, attempts int64) float64 {
	if attempts == 0 {
		return 0.0
	}
	return float64(ok) / float64(attempts)
}
