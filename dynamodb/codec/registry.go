package codec

import (
	"fmt"
	"time"

	"github.com/acksell/statustable"
	"github.com/acksell/statustable/dynamodb/expiry"
	"github.com/acksell/statustable/dynamodb/item"
)

// Registry dispatches encode and decode to the codec registered for an item type.
// It is safe for concurrent use once built.
type Registry struct {
	codecs map[string]Codec
	policy expiry.Policy
}

// NewRegistry builds a registry over codecs. Registering two codecs for the
// same type panics.
func NewRegistry(policy expiry.Policy, codecs ...Codec) *Registry {
	r := &Registry{
		codecs: make(map[string]Codec, len(codecs)),
		policy: policy,
	}
	for _, c := range codecs {
		t := string(c.EntityType())
		if _, dup := r.codecs[t]; dup {
			panic(fmt.Sprintf("codec: duplicate codec for %q", t))
		}
		r.codecs[t] = c
	}
	return r
}

// Default returns a registry with the user, issue and workload codecs and the
// default expiry policy.
func Default() *Registry {
	return NewRegistry(expiry.New(), UserCodec(), IssueCodec(), WorkloadCodec())
}

func (r *Registry) lookup(itemType string) (Codec, error) {
	c, ok := r.codecs[itemType]
	if !ok {
		return nil, &UnknownTypeError{ItemType: itemType}
	}
	return c, nil
}

type encodeOptions struct {
	existing *item.GenericItem
}

type EncodeOption func(*encodeOptions)

// WithExisting marks the encode as an update of prev, the item currently
// stored under the entity's keys. Its CreatedAt is preserved.
func WithExisting(prev *item.GenericItem) EncodeOption {
	return func(o *encodeOptions) {
		o.existing = prev
	}
}

// KeysFor returns the keys e is stored under when written at now.
func (r *Registry) KeysFor(e statustable.Entity, now time.Time) (Keys, error) {
	c, err := r.lookup(string(e.EntityType()))
	if err != nil {
		return Keys{}, err
	}
	return c.Keys(e, now)
}

// Encode builds the item for e as written at now. Keys and TTL are derived
// from the entity's current state on every call.
func (r *Registry) Encode(e statustable.Entity, now time.Time, opts ...EncodeOption) (item.GenericItem, error) {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	itemType := string(e.EntityType())
	c, err := r.lookup(itemType)
	if err != nil {
		return item.GenericItem{}, err
	}
	now = now.UTC()
	keys, err := c.Keys(e, now)
	if err != nil {
		return item.GenericItem{}, err
	}
	data, err := c.Data(e)
	if err != nil {
		return item.GenericItem{}, err
	}

	created := now
	if prev := o.existing; prev != nil {
		if prev.PK != keys.PK || prev.SK != keys.SK {
			return item.GenericItem{}, fmt.Errorf("existing item %s/%s does not match keys %s/%s", prev.PK, prev.SK, keys.PK, keys.SK)
		}
		if prev.ItemType != itemType {
			return item.GenericItem{}, fmt.Errorf("encode %s over %s/%s of type %s: %w", itemType, prev.PK, prev.SK, prev.ItemType, ErrItemTypeChanged)
		}
		if !prev.CreatedAt.IsZero() {
			created = prev.CreatedAt.UTC()
		}
	}
	updated := now
	if updated.Before(created) {
		// clock skew between writers
		updated = created
	}

	it := item.GenericItem{
		PK:        keys.PK,
		SK:        keys.SK,
		GSI1PK:    keys.GSI1PK,
		GSI1SK:    keys.GSI1SK,
		ItemType:  itemType,
		Data:      data,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	if at := r.policy.ExpiryFor(e, now); at != nil {
		it.TTL = item.Ptr(ttlSeconds(*at))
	}
	return it, nil
}

// ttlSeconds rounds at up to whole seconds so the item never reads as
// expired before the policy instant.
func ttlSeconds(at time.Time) int64 {
	s := at.Unix()
	if at.Nanosecond() > 0 {
		s++
	}
	return s
}

// Decode rebuilds the entity stored in it. It fails with *UnknownTypeError
// for unregistered item types and with *ExpiredError once the TTL has passed
// at now.
func (r *Registry) Decode(it item.GenericItem, now time.Time) (statustable.Entity, error) {
	c, err := r.lookup(it.ItemType)
	if err != nil {
		return nil, err
	}
	if it.IsExpired(now) {
		return nil, &ExpiredError{PK: it.PK, SK: it.SK, ExpiredAt: *it.ExpiresAt()}
	}
	return c.Decode(it)
}
