package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrShutdownTimeout = errors.New("shutdown grace period elapsed")
	ErrQueueClosed     = errors.New("request queue closed")
	ErrDrainTimeout    = errors.New("timed out waiting for queue to drain")
)

// invalid wraps ErrInvalidArgument with a reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// WorkerFault is an unexpected failure while processing one request.
// It never stops the worker that hit it.
type WorkerFault struct {
	Worker    int
	RequestID string
	Cause     error
}

func (f *WorkerFault) Error() string {
	return fmt.Sprintf("worker %d: request %s: %v", f.Worker, f.RequestID, f.Cause)
}

func (f *WorkerFault) Unwrap() error { return f.Cause }
