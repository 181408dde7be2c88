// Package requests turns external booking request records into
// domain.BookingRequest values. It is the only place that parses them.
package requests

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"room_reservation/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// field aliases seen in request feeds
var aliases = map[string][]string{
	"id":    {"id", "requestId", "request_id"},
	"room":  {"roomNumber", "room_number", "room"},
	"guest": {"guest", "guestName", "guest_name", "name"},
}

// RecordError reports one record that could not be mapped.
type RecordError struct {
	Index int
	Err   error
}

func (e RecordError) Error() string { return fmt.Sprintf("record %d: %v", e.Index, e.Err) }

func (e RecordError) Unwrap() error { return e.Err }

// DecodeFile reads a JSON array of request records from path.
func DecodeFile(path string) ([]domain.BookingRequest, []RecordError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a JSON array of request records. Records with an unusable
// room number are skipped and reported; blank guests are kept so the core
// can reject them.
func Decode(r io.Reader) ([]domain.BookingRequest, []RecordError, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decode booking requests: %w", err)
	}
	reqs, bad := Map(raw)
	for _, e := range bad {
		log.Warn().Int("index", e.Index).Err(e.Err).Msg("skipping booking request record")
	}
	return reqs, bad, nil
}

// Map converts raw records in order.
func Map(raw []map[string]any) ([]domain.BookingRequest, []RecordError) {
	out := make([]domain.BookingRequest, 0, len(raw))
	var bad []RecordError
	for i, m := range raw {
		req, err := mapRecord(m)
		if err != nil {
			bad = append(bad, RecordError{Index: i, Err: err})
			continue
		}
		out = append(out, req)
	}
	return out, bad
}

func mapRecord(m map[string]any) (domain.BookingRequest, error) {
	room, err := firstInt(m, aliases["room"]...)
	if err != nil {
		return domain.BookingRequest{}, err
	}
	return domain.BookingRequest{
		ID:         firstString(m, aliases["id"]...),
		RoomNumber: room,
		Guest:      strings.TrimSpace(firstString(m, aliases["guest"]...)),
	}, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstInt accepts JSON numbers and numeric strings.
func firstInt(m map[string]any, keys ...string) (int, error) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if v != float64(int(v)) {
				return 0, fmt.Errorf("%w: %s is not an integer: %v", domain.ErrInvalidArgument, k, v)
			}
			return int(v), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return 0, fmt.Errorf("%w: %s is not a number: %q", domain.ErrInvalidArgument, k, v)
			}
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: missing room number", domain.ErrInvalidArgument)
}
