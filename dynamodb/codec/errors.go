package codec

import (
	"errors"
	"fmt"
	"time"
)

// ErrItemTypeChanged is returned when an update would turn an existing item
// into another entity type.
var ErrItemTypeChanged = errors.New("item type cannot change")

// UnknownTypeError means no codec is registered for an item type. It usually
// indicates schema drift and is not retryable.
type UnknownTypeError struct {
	ItemType string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("no codec registered for item type %q", e.ItemType)
}

// ExpiredError means the item is past its TTL. Callers treat it as absent.
type ExpiredError struct {
	PK, SK    string
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("item %s/%s expired at %s", e.PK, e.SK, e.ExpiredAt.Format(time.RFC3339))
}

// IsExpired reports whether err is, or wraps, an *ExpiredError.
func IsExpired(err error) bool {
	var expired *ExpiredError
	return errors.As(err, &expired)
}
