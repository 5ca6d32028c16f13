package singletable

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable is a transient backend fault. Callers may retry with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrThrottled means the backend's capacity is exceeded. Callers must back off.
	ErrThrottled = errors.New("store throttled")
)

// kindError keeps both the kind and the cause in the chain so that errors.Is
// matches either.
type kindError struct {
	kind  error
	op    string
	cause error
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.cause)
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

// Unavailable wraps cause as ErrStoreUnavailable. A nil cause returns nil.
func Unavailable(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: ErrStoreUnavailable, op: op, cause: cause}
}

// Throttled wraps cause as ErrThrottled. A nil cause returns nil.
func Throttled(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: ErrThrottled, op: op, cause: cause}
}

// CheckContext returns ctx's error as ErrStoreUnavailable, if it is done.
func CheckContext(ctx context.Context, op string) error {
	return Unavailable(op, ctx.Err())
}

// IsRetryable reports whether err is one of the transient kinds.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrThrottled)
}
