package requests_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"room_reservation/internal/adapters/requests"
)

func TestClient_Fetch_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"roomNumber":101,"guest":"Alice"},{"room":"102","guestName":"Bob"}]`))
		}
	}))
	defer ts.Close()

	cl := requests.NewClient("test-key", 100)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	reqs, bad, err := cl.Fetch(ctx, ts.URL)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(bad) != 0 || len(reqs) != 2 {
		t.Fatalf("unexpected result: reqs=%+v bad=%+v", reqs, bad)
	}
	if reqs[1].RoomNumber != 102 || reqs[1].Guest != "Bob" {
		t.Fatalf("unexpected second request: %+v", reqs[1])
	}
	if atomic.LoadInt32(&hits) < 2 {
		t.Fatalf("expected a retry, got %d calls", hits)
	}
}

func TestClient_Fetch_StatusErrors(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:     requests.ErrNotFound,
		http.StatusUnauthorized: requests.ErrUnauthorized,
		http.StatusForbidden:    requests.ErrForbidden,
	}
	for status, want := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		cl := requests.NewClient("", 100)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, _, err := cl.Fetch(ctx, ts.URL)
		cancel()
		ts.Close()

		if !errors.Is(err, want) {
			t.Fatalf("status %d: expected %v, got %v", status, want, err)
		}
	}
}

func TestClient_FetchAll_KeepsFeedOrder(t *testing.T) {
	var inFlight, peak int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		switch r.URL.Path {
		case "/a":
			_, _ = w.Write([]byte(`[{"roomNumber":101,"guest":"Alice"}]`))
		case "/b":
			_, _ = w.Write([]byte(`[{"roomNumber":102,"guest":"Bob"}]`))
		case "/c":
			_, _ = w.Write([]byte(`[{"roomNumber":103,"guest":"Carol"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	cl := requests.NewClient("", 100)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	reqs, _, err := cl.FetchAll(ctx, []string{ts.URL + "/a", ts.URL + "/missing", ts.URL + "/b", ts.URL + "/c"}, 2)
	if !errors.Is(err, requests.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from the missing feed, got %v", err)
	}
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %+v", reqs)
	}
	for i, want := range []int{101, 102, 103} {
		if reqs[i].RoomNumber != want {
			t.Fatalf("request %d: got room %d want %d", i, reqs[i].RoomNumber, want)
		}
	}
	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Fatalf("expected at most 2 concurrent fetches, saw %d", p)
	}
}
