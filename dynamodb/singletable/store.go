// Package singletable defines the storage contract of the status table: one
// physical table holding every entity as a generic item, addressed by
// (PK, SK) and by the GSI1 secondary index.
package singletable

import (
	"context"
	"fmt"
	"iter"

	"github.com/acksell/statustable/dynamodb/item"
)

// Seq is a lazy sequence of items. Every range over it runs the query again
// from the start, pagination is hidden. Iteration stops after the first error.
type Seq = iter.Seq2[item.GenericItem, error]

// Store is implemented by every backend. Implementations do no in-process
// locking and never retry. Items are returned raw, including those past
// their TTL; the codec layer filters them.
//
// Empty keys and invalid items are programming errors and panic.
type Store interface {
	// Put writes it, replacing any item with the same (PK, SK).
	Put(ctx context.Context, it item.GenericItem) error
	// Get returns nil, nil when no item is stored under (pk, sk).
	Get(ctx context.Context, pk, sk string) (*item.GenericItem, error)
	// Delete succeeds whether or not the item exists.
	Delete(ctx context.Context, pk, sk string) error
	// QueryByPartition yields the items of partition pk whose sort key starts
	// with skPrefix, in ascending sort key order.
	QueryByPartition(ctx context.Context, pk, skPrefix string) Seq
	// QueryByIndex yields the items whose GSI1PK is gsi1pk and whose GSI1SK
	// falls in r, in ascending GSI1SK order. A nil range matches all, an
	// inverted one (Lo > Hi) matches nothing.
	QueryByIndex(ctx context.Context, gsi1pk string, r *Range) Seq
}

// Range is an inclusive bound on a sort key. An empty Lo or Hi leaves that
// side open.
type Range struct {
	Lo string
	Hi string
}

// Between returns the range [lo, hi].
func Between(lo, hi string) *Range {
	return &Range{Lo: lo, Hi: hi}
}

// AtLeast returns the range [lo, ∞).
func AtLeast(lo string) *Range {
	return &Range{Lo: lo}
}

// AtMost returns the range (-∞, hi].
func AtMost(hi string) *Range {
	return &Range{Hi: hi}
}

// Contains reports whether key lies in r. A nil range contains every key.
func (r *Range) Contains(key string) bool {
	if r == nil {
		return true
	}
	if r.Lo != "" && key < r.Lo {
		return false
	}
	if r.Hi != "" && key > r.Hi {
		return false
	}
	return true
}

// IsOpen reports whether r does not restrict keys at all.
func (r *Range) IsOpen() bool {
	return r == nil || (r.Lo == "" && r.Hi == "")
}

// IsEmpty reports whether r is inverted and so contains no key.
func (r *Range) IsEmpty() bool {
	return r != nil && r.Lo != "" && r.Hi != "" && r.Lo > r.Hi
}

// MustKey panics if pk or sk is empty.
func MustKey(pk, sk string) {
	if pk == "" || sk == "" {
		panic(fmt.Sprintf("singletable: empty key pk=%q sk=%q", pk, sk))
	}
}

// MustPartition panics if pk is empty.
func MustPartition(pk string) {
	if pk == "" {
		panic("singletable: empty partition key")
	}
}

// MustValid panics if it violates the item invariants.
func MustValid(it item.GenericItem) {
	if err := it.Validate(); err != nil {
		panic(fmt.Sprintf("singletable: invalid item: %v", err))
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq Seq) ([]item.GenericItem, error) {
	var out []item.GenericItem
	for it, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, it)
	}
	return out, nil
}

// None returns a sequence yielding nothing.
func None() Seq {
	return func(func(item.GenericItem, error) bool) {}
}

// Fail returns a sequence yielding only err.
func Fail(err error) Seq {
	return func(yield func(item.GenericItem, error) bool) {
		yield(item.GenericItem{}, err)
	}
}
