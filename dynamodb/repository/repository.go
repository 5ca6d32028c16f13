// Package repository offers typed access to the status table. It encodes
// entities through the codec registry, stores them through a
// singletable.Store and drops expired items on read.
package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/acksell/statustable"
	"github.com/acksell/statustable/dynamodb/codec"
	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/singletable"
)

type Repository struct {
	store  singletable.Store
	codecs *codec.Registry
	clock  func() time.Time
	log    *slog.Logger
}

type Option func(*Repository)

// WithClock sets the clock used for write timestamps and expiry checks.
// Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(r *Repository) {
		r.clock = clock
	}
}

// WithRegistry replaces the default codec registry.
func WithRegistry(reg *codec.Registry) Option {
	return func(r *Repository) {
		r.codecs = reg
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		r.log = l
	}
}

func New(store singletable.Store, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		codecs: codec.Default(),
		clock:  time.Now,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save writes e, preserving the creation time of the item it replaces.
// An issue without an ID gets a fresh one, and without a creation time it is
// created now; the returned item carries both in its sort key.
// Concurrent saves of the same entity race, the last write wins.
func (r *Repository) Save(ctx context.Context, e statustable.Entity) (item.GenericItem, error) {
	now := r.clock()
	e = withDefaults(e, now)
	keys, err := r.codecs.KeysFor(e, now)
	if err != nil {
		return item.GenericItem{}, err
	}
	prev, err := r.store.Get(ctx, keys.PK, keys.SK)
	if err != nil {
		return item.GenericItem{}, fmt.Errorf("read existing %s/%s: %w", keys.PK, keys.SK, err)
	}
	var opts []codec.EncodeOption
	if prev != nil {
		opts = append(opts, codec.WithExisting(prev))
	}
	it, err := r.codecs.Encode(e, now, opts...)
	if err != nil {
		return item.GenericItem{}, err
	}
	if err := r.store.Put(ctx, it); err != nil {
		return item.GenericItem{}, fmt.Errorf("save %s/%s: %w", it.PK, it.SK, err)
	}
	r.log.DebugContext(ctx, "saved entity", "itemType", it.ItemType, "pk", it.PK, "sk", it.SK)
	return it, nil
}

func withDefaults(e statustable.Entity, now time.Time) statustable.Entity {
	issue, ok := e.(statustable.Issue)
	if !ok {
		return e
	}
	if issue.ID == "" {
		issue.ID = statustable.NewIssueID()
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now.UTC()
	}
	return issue
}

// load returns the live entity stored under (pk, sk), or nil.
func (r *Repository) load(ctx context.Context, pk, sk string) (statustable.Entity, error) {
	it, err := r.store.Get(ctx, pk, sk)
	if err != nil || it == nil {
		return nil, err
	}
	e, err := r.codecs.Decode(*it, r.clock())
	if codec.IsExpired(err) {
		return nil, nil
	}
	return e, err
}

// Delete removes the item e is stored under. It is idempotent.
func (r *Repository) Delete(ctx context.Context, e statustable.Entity) error {
	keys, err := r.codecs.KeysFor(e, r.clock())
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, keys.PK, keys.SK)
}

// live decodes seq into entities of type T, skipping expired items. Items of
// other types in the same partition are skipped as well, unknown types surface
// as *codec.UnknownTypeError.
func live[T statustable.Entity](r *Repository, seq singletable.Seq) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		now := r.clock()
		for it, err := range seq {
			if err != nil {
				yield(zero, err)
				return
			}
			e, err := r.codecs.Decode(it, now)
			if codec.IsExpired(err) {
				continue
			}
			if err != nil {
				yield(zero, err)
				return
			}
			v, ok := e.(T)
			if !ok {
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect drains a typed sequence into a slice.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

func getAs[T statustable.Entity](ctx context.Context, r *Repository, pk, sk string) (*T, error) {
	e, err := r.load(ctx, pk, sk)
	if err != nil || e == nil {
		return nil, err
	}
	v, ok := e.(T)
	if !ok {
		return nil, fmt.Errorf("%s/%s holds %s: %w", pk, sk, e.EntityType(), codec.ErrItemTypeChanged)
	}
	return &v, nil
}

// IsNotRetryable reports whether err is a failure retrying cannot fix.
func IsNotRetryable(err error) bool {
	var unknown *codec.UnknownTypeError
	return errors.As(err, &unknown) || errors.Is(err, codec.ErrItemTypeChanged)
}
