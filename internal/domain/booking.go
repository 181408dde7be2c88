package domain

import (
	"strings"
	"time"
)

// BookingRequest is one instruction to book RoomNumber for Guest.
// Values may be built with zero fields; validation happens at processing time.
type BookingRequest struct {
	ID         string
	RoomNumber int
	Guest      string
}

func (r BookingRequest) GuestValid() bool { return strings.TrimSpace(r.Guest) != "" }

type Outcome string

const (
	OutcomeCommitted           = Outcome("committed")
	OutcomeRejectedUnavailable = Outcome("rejected_unavailable")
	OutcomeRejectedUnknownRoom = Outcome("rejected_unknown_room")
	OutcomeRejectedInvalid     = Outcome("rejected_invalid")
	OutcomeFault               = Outcome("fault")
)

func (o Outcome) String() string { return string(o) }

func (o Outcome) Committed() bool { return o == OutcomeCommitted }

// BookingRecord is what the journal keeps for each processed request.
type BookingRecord struct {
	RequestID   string
	RoomNumber  int
	Guest       string
	Outcome     Outcome
	Reason      string
	ProcessedAt time.Time
}

// RoomStats is the per-room part of a Stats snapshot.
type RoomStats struct {
	Number       int      `json:"number"`
	Type         RoomType `json:"type"`
	Price        float64  `json:"price"`
	Available    bool     `json:"available"`
	BookingCount int      `json:"bookingCount"`
}

// Stats is a read-only statistics snapshot of the store.
type Stats struct {
	LoadAttempts       int64       `json:"loadAttempts"`
	SuccessfulBookings int64       `json:"successfulBookings"`
	SuccessRate        float64     `json:"successRate"`
	AvailableRooms     int         `json:"availableRooms"`
	Rooms              []RoomStats `json:"rooms"`
}

// RoomView is the read model of a single room.
type RoomView struct {
	Number          int        `json:"number"`
	Type            RoomType   `json:"type"`
	Price           float64    `json:"price"`
	Available       bool       `json:"available"`
	Guest           *string    `json:"guest,omitempty"`
	LastBookingTime *time.Time `json:"lastBookingTime,omitempty"`
	BookingCount    int        `json:"bookingCount"`
}

func NewRoomView(r Room) RoomView {
	v := RoomView{
		Number:       r.Number(),
		Type:         r.Type(),
		Price:        r.Price(),
		Available:    r.Available(),
		BookingCount: r.BookingCount(),
	}
	if g, ok := r.Guest(); ok {
		v.Guest = &g
	}
	if t := r.LastBookingTime(); !t.IsZero() {
		v.LastBookingTime = &t
	}
	return v
}
