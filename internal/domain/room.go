package domain

import (
	"strings"
	"time"
)

type RoomType string

const (
	Standard     = RoomType("STANDARD")
	Deluxe       = RoomType("DELUXE")
	Suite        = RoomType("SUITE")
	Presidential = RoomType("PRESIDENTIAL")
)

func (t RoomType) String() string { return string(t) }

func (t RoomType) Valid() bool {
	switch t {
	case Standard, Deluxe, Suite, Presidential:
		return true
	}
	return false
}

// ParseRoomType accepts any casing of the four known types.
func ParseRoomType(s string) (RoomType, error) {
	t := RoomType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", invalid("unknown room type %q", s)
	}
	return t, nil
}

// RoomSpec carries the fields NewRoom validates.
type RoomSpec struct {
	Number          int
	Type            RoomType
	Price           float64
	Available       bool
	Guest           string
	LastBookingTime time.Time
	BookingCount    int
}

// Room is an immutable snapshot of one room. Transitions return a new value.
type Room struct {
	number       int
	roomType     RoomType
	price        float64
	available    bool
	guest        string
	lastBooking  time.Time
	bookingCount int
}

// NewRoom validates spec and builds a snapshot from it.
func NewRoom(s RoomSpec) (Room, error) {
	switch {
	case s.Number <= 0:
		return Room{}, invalid("room number must be positive, got %d", s.Number)
	case !s.Type.Valid():
		return Room{}, invalid("unknown room type %q", s.Type)
	case s.Price < 0:
		return Room{}, invalid("price cannot be negative, got %.2f", s.Price)
	case s.BookingCount < 0:
		return Room{}, invalid("booking count cannot be negative, got %d", s.BookingCount)
	case s.Available && s.Guest != "":
		return Room{}, invalid("available room %d cannot have a guest", s.Number)
	case !s.Available && strings.TrimSpace(s.Guest) == "":
		return Room{}, invalid("booked room %d needs a guest", s.Number)
	}
	return Room{
		number:       s.Number,
		roomType:     s.Type,
		price:        s.Price,
		available:    s.Available,
		guest:        s.Guest,
		lastBooking:  s.LastBookingTime,
		bookingCount: s.BookingCount,
	}, nil
}

func (r Room) Number() int                { return r.number }
func (r Room) Type() RoomType             { return r.roomType }
func (r Room) Price() float64             { return r.price }
func (r Room) Available() bool            { return r.available }
func (r Room) BookingCount() int          { return r.bookingCount }
func (r Room) LastBookingTime() time.Time { return r.lastBooking }

// Guest returns the current guest; ok is false while the room is available.
func (r Room) Guest() (string, bool) { return r.guest, !r.available }

// Book returns the booked snapshot. Booking an unavailable room is a no-op.
func (r Room) Book(guest string, now time.Time) (Room, error) {
	if strings.TrimSpace(guest) == "" {
		return r, invalid("guest name cannot be empty")
	}
	if !r.available {
		return r, nil
	}
	next := r
	next.available = false
	next.guest = guest
	next.lastBooking = now
	next.bookingCount++
	return next, nil
}

// Unbook frees the room, keeping its booking count and last booking time.
func (r Room) Unbook() Room {
	if r.available {
		return r
	}
	next := r
	next.available = true
	next.guest = ""
	return next
}

// Equal reports identity, which is the room number alone.
func (r Room) Equal(o Room) bool { return r.number == o.number }

// Spec returns the snapshot's fields, e.g. for rebuilding it elsewhere.
func (r Room) Spec() RoomSpec {
	return RoomSpec{
		Number:          r.number,
		Type:            r.roomType,
		Price:           r.price,
		Available:       r.available,
		Guest:           r.guest,
		LastBookingTime: r.lastBooking,
		BookingCount:    r.bookingCount,
	}
}

// DefaultInventory is the fixed set of rooms seeded at startup.
func DefaultInventory() []RoomSpec {
	return []RoomSpec{
		{Number: 101, Type: Standard, Price: 100.0, Available: true},
		{Number: 102, Type: Standard, Price: 100.0, Available: true},
		{Number: 103, Type: Deluxe, Price: 200.0, Available: true},
		{Number: 104, Type: Deluxe, Price: 200.0, Available: true},
		{Number: 105, Type: Suite, Price: 300.0, Available: true},
		{Number: 106, Type: Suite, Price: 300.0, Available: true},
		{Number: 107, Type: Presidential, Price: 500.0, Available: true},
	}
}
