package domain

import "context"

// RoomStore is the authoritative holder of room snapshots and booking counters.
// Implementations must be safe for concurrent use.
type RoomStore interface {
	// Load returns the current snapshot; ok is false for unknown rooms.
	// Every call counts as a load attempt.
	Load(roomNumber int) (room Room, ok bool, err error)

	// TryCommitBooking atomically books an available room.
	// It returns true only for the call that performed the transition.
	TryCommitBooking(roomNumber int, guest string) (bool, error)

	// Unbook atomically frees a booked room.
	Unbook(roomNumber int) (bool, error)

	AllRooms() []Room
	AvailableCount() int
	SuccessRate() float64
	Stats() Stats
}

// OutcomeRecorder keeps a journal of processed requests.
type OutcomeRecorder interface {
	Record(ctx context.Context, rec BookingRecord) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
