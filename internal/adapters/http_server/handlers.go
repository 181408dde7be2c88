package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"room_reservation/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Queries is the read side the handlers need.
type Queries interface {
	Stats(ctx context.Context) (domain.Stats, error)
	Rooms(ctx context.Context) []domain.RoomView
	Room(ctx context.Context, number int) (domain.RoomView, error)
}

// Submitter accepts booking requests for asynchronous processing.
type Submitter interface {
	Submit(req domain.BookingRequest) (string, error)
}

type Handlers struct {
	Q Queries
	S Submitter // nil disables POST /v1/bookings
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type bookingBody struct {
	RoomNumber int    `json:"roomNumber"`
	Guest      string `json:"guest"`
}

type accepted struct {
	RequestID string `json:"requestId"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/stats", h.getStats)
	s.mux.Get("/v1/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/{number}", h.getRoom)
	if h.S != nil {
		s.mux.Post("/v1/bookings", h.postBooking)
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) getStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Q.Stats(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "statistics unavailable")
		return
	}
	writeJSON(w, r, st)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Q.Rooms(r.Context()))
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || n <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid room number", "room number must be a positive integer")
		return
	}
	room, err := h.Q.Room(r.Context(), n)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "room not found")
		return
	}
	writeJSON(w, r, room)
}

func (h *Handlers) postBooking(w http.ResponseWriter, r *http.Request) {
	var b bookingBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&b); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected {\"roomNumber\":int,\"guest\":string}")
		return
	}
	if b.RoomNumber <= 0 || strings.TrimSpace(b.Guest) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid booking", "roomNumber must be positive and guest non-empty")
		return
	}
	id, err := h.S.Submit(domain.BookingRequest{RoomNumber: b.RoomNumber, Guest: b.Guest})
	if errors.Is(err, domain.ErrQueueClosed) {
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "no longer accepting bookings")
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not queue booking")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(accepted{RequestID: id}); err != nil {
		log.Error().Err(err).Msg("failed to write booking response")
	}
}
