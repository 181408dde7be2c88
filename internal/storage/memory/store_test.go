package memory_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room_reservation/internal/domain"
	"room_reservation/internal/storage/memory"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.NewDefault(memory.WithClock(func() time.Time { return fixedNow }))
}

func TestNew_SeedsInventoryOnce(t *testing.T) {
	s := newStore(t)
	rooms := s.AllRooms()
	require.Len(t, rooms, 7)
	for i, r := range rooms {
		assert.Equal(t, 101+i, r.Number())
		assert.True(t, r.Available())
	}

	_, err := s.TryCommitBooking(101, "Alice")
	require.NoError(t, err)
	require.NoError(t, s.Seed())
	r, ok, err := s.Load(101)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, r.Available(), "re-seeding must not reset state")
}

func TestNew_RejectsBadInventory(t *testing.T) {
	_, err := memory.New([]domain.RoomSpec{{Number: 1, Type: domain.Standard, Available: true}, {Number: 1, Type: domain.Suite, Available: true}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = memory.New([]domain.RoomSpec{{Number: -5, Type: domain.Standard, Available: true}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoad(t *testing.T) {
	s := newStore(t)

	r, ok, err := s.Load(101)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 101, r.Number())

	_, ok, err = s.Load(999)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 2, s.LoadAttempts(), "misses count as attempts")

	for _, n := range []int{0, -1, -100} {
		_, _, err := s.Load(n)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
	assert.EqualValues(t, 2, s.LoadAttempts(), "rejected arguments are not attempts")
}

// Scenario A
func TestTryCommitBooking_Available(t *testing.T) {
	s := newStore(t)
	ok, err := s.TryCommitBooking(101, "Alice")
	require.NoError(t, err)
	assert.True(t, ok)

	r, _, _ := s.Load(101)
	assert.False(t, r.Available())
	g, _ := r.Guest()
	assert.Equal(t, "Alice", g)
	assert.Equal(t, 1, r.BookingCount())
	assert.Equal(t, fixedNow, r.LastBookingTime())
	assert.EqualValues(t, 1, s.SuccessfulBookings())
	assert.Equal(t, 6, s.AvailableCount())
}

func TestTryCommitBooking_Unavailable(t *testing.T) {
	s := newStore(t)
	ok, err := s.TryCommitBooking(102, "Bob")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.TryCommitBooking(102, "Carol")
	require.NoError(t, err)
	assert.False(t, ok)

	r, _, _ := s.Load(102)
	g, _ := r.Guest()
	assert.Equal(t, "Bob", g)
	assert.Equal(t, 1, r.BookingCount())
	assert.EqualValues(t, 1, s.SuccessfulBookings())
}

// Scenario B
func TestTryCommitBooking_UnknownRoom(t *testing.T) {
	s := newStore(t)
	_, found, err := s.Load(999)
	require.NoError(t, err)
	require.False(t, found)

	ok, err := s.TryCommitBooking(999, "Eve")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 1, s.LoadAttempts())
	assert.EqualValues(t, 0, s.SuccessfulBookings())
	assert.Len(t, s.AllRooms(), 7)
	assert.False(t, s.IsAvailable(999))
}

func TestTryCommitBooking_InvalidArguments(t *testing.T) {
	s := newStore(t)
	_, err := s.TryCommitBooking(101, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = s.TryCommitBooking(0, "Alice")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.True(t, s.IsAvailable(101))
	assert.EqualValues(t, 0, s.SuccessfulBookings())
}

// Scenario C
func TestTryCommitBooking_TwoConcurrentGuests(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := newStore(t)
		var wg sync.WaitGroup
		start := make(chan struct{})
		results := make(map[string]bool)
		var mu sync.Mutex
		for _, g := range []string{"Bob", "Carol"} {
			wg.Add(1)
			go func(guest string) {
				defer wg.Done()
				<-start
				ok, err := s.TryCommitBooking(103, guest)
				assert.NoError(t, err)
				mu.Lock()
				results[guest] = ok
				mu.Unlock()
			}(g)
		}
		close(start)
		wg.Wait()

		require.NotEqual(t, results["Bob"], results["Carol"], "exactly one guest must win")
		r, _, _ := s.Load(103)
		assert.Equal(t, 1, r.BookingCount())
		g, _ := r.Guest()
		assert.True(t, results[g], "stored guest must be the winner")
	}
}

func TestTryCommitBooking_ManyContenders(t *testing.T) {
	s := newStore(t)
	const n = 64
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			for _, room := range []int{101, 105, 107} {
				ok, err := s.TryCommitBooking(room, fmt.Sprintf("guest-%d", i))
				assert.NoError(t, err)
				if ok {
					wins.Add(1)
				}
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 3, wins.Load())
	assert.EqualValues(t, 3, s.SuccessfulBookings())
	for _, room := range []int{101, 105, 107} {
		r, _, _ := s.Load(room)
		assert.Equal(t, 1, r.BookingCount(), "room %d", room)
	}
}

func TestTryCommitBooking_ConcurrentWithUnbook(t *testing.T) {
	s := newStore(t)
	const rounds = 500
	var commits, unbooks atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if ok, _ := s.TryCommitBooking(104, "X"); ok {
					commits.Add(1)
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if ok, _ := s.Unbook(104); ok {
					unbooks.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	r, _, _ := s.Load(104)
	assert.EqualValues(t, commits.Load(), r.BookingCount(), "no lost updates")
	assert.EqualValues(t, commits.Load(), s.SuccessfulBookings())
	held := commits.Load() - unbooks.Load()
	assert.True(t, held == 0 || held == 1)
	assert.Equal(t, held == 0, r.Available())
}

func TestUnbook(t *testing.T) {
	s := newStore(t)
	ok, err := s.Unbook(106)
	require.NoError(t, err)
	assert.False(t, ok, "already available")

	_, _ = s.TryCommitBooking(106, "Gus")
	ok, err = s.Unbook(106)
	require.NoError(t, err)
	assert.True(t, ok)
	r, _, _ := s.Load(106)
	assert.True(t, r.Available())
	assert.Equal(t, 1, r.BookingCount())

	ok, err = s.Unbook(999)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = s.Unbook(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAllRooms_ReadOnly(t *testing.T) {
	s := newStore(t)
	rooms := s.AllRooms()
	booked, err := rooms[0].Book("Mallory", fixedNow)
	require.NoError(t, err)
	rooms[0] = booked
	rooms = append(rooms[:1], rooms[2:]...)
	_ = rooms

	again := s.AllRooms()
	require.Len(t, again, 7)
	assert.True(t, again[0].Available())
	assert.Equal(t, 102, again[1].Number())
}

// Scenario D
func TestSuccessRate(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, 0.0, s.SuccessRate())

	_, _, _ = s.Load(101)
	ok, _ := s.TryCommitBooking(101, "Alice")
	require.True(t, ok)
	assert.Equal(t, 1.0, s.SuccessRate())

	_, _, _ = s.Load(101)
	ok, _ = s.TryCommitBooking(101, "Bob")
	require.False(t, ok)
	assert.Equal(t, 0.5, s.SuccessRate())
}

func TestStats(t *testing.T) {
	s := newStore(t)
	_, _, _ = s.Load(107)
	_, _ = s.TryCommitBooking(107, "Pat")
	_, _, _ = s.Load(999)

	st := s.Stats()
	assert.EqualValues(t, 2, st.LoadAttempts)
	assert.EqualValues(t, 1, st.SuccessfulBookings)
	assert.Equal(t, 0.5, st.SuccessRate)
	assert.Equal(t, 6, st.AvailableRooms)
	require.Len(t, st.Rooms, 7)
	last := st.Rooms[6]
	assert.Equal(t, domain.RoomStats{Number: 107, Type: domain.Presidential, Price: 500, Available: false, BookingCount: 1}, last)
}
