// Package report renders a statistics snapshot as log lines.
package report

import (
	"fmt"

	"github.com/rs/zerolog"

	"room_reservation/internal/domain"
)

// Log writes the booking totals followed by one line per room.
func Log(l zerolog.Logger, st domain.Stats) {
	l.Info().
		Int64("load_attempts", st.LoadAttempts).
		Int64("successful_bookings", st.SuccessfulBookings).
		Str("success_rate", fmt.Sprintf("%.2f%%", st.SuccessRate*100)).
		Int("available_rooms", st.AvailableRooms).
		Msg("booking statistics")

	for _, r := range st.Rooms {
		l.Info().
			Int("room", r.Number).
			Str("type", r.Type.String()).
			Str("price", fmt.Sprintf("$%.2f", r.Price)).
			Bool("available", r.Available).
			Int("bookings", r.BookingCount).
			Msg(RoomLine(r))
	}
}

// RoomLine formats one room the way operators read it in the console.
func RoomLine(r domain.RoomStats) string {
	avail := "No"
	if r.Available {
		avail = "Yes"
	}
	return fmt.Sprintf("Room %d: %s, Price: $%.2f, Available: %s, Bookings: %d",
		r.Number, r.Type, r.Price, avail, r.BookingCount)
}
