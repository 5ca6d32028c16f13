// Package codec translates domain entities to and from the generic item
// stored in the table.
package codec

import (
	"fmt"
	"time"

	"github.com/acksell/statustable"
	"github.com/acksell/statustable/dynamodb/item"
)

// Keys are the derived key attributes of an entity.
type Keys struct {
	PK     string
	SK     string
	GSI1PK *string
	GSI1SK *string
}

// Codec encodes and decodes one entity type.
type Codec interface {
	EntityType() statustable.EntityType
	// Keys derives the keys of e as written at now. PK and SK never depend on now.
	Keys(e statustable.Entity, now time.Time) (Keys, error)
	// Data returns the payload, i.e. every field not recoverable from the keys.
	Data(e statustable.Entity) (map[string]any, error)
	// Decode rebuilds the entity from payload and keys. Expiry is checked by the caller.
	Decode(it item.GenericItem) (statustable.Entity, error)
}

type entityCodec[T statustable.Entity] struct {
	typ    statustable.EntityType
	keys   func(T, time.Time) Keys
	data   func(T) map[string]any
	decode func(item.GenericItem) (T, error)
}

// New builds a Codec for T out of an explicit key, payload and decode function.
func New[T statustable.Entity](
	typ statustable.EntityType,
	keys func(T, time.Time) Keys,
	data func(T) map[string]any,
	decode func(item.GenericItem) (T, error),
) Codec {
	return &entityCodec[T]{typ: typ, keys: keys, data: data, decode: decode}
}

func (c *entityCodec[T]) EntityType() statustable.EntityType {
	return c.typ
}

func (c *entityCodec[T]) cast(e statustable.Entity) (T, error) {
	v, ok := e.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("codec for %s got %T", c.typ, e)
	}
	return v, nil
}

func (c *entityCodec[T]) Keys(e statustable.Entity, now time.Time) (Keys, error) {
	v, err := c.cast(e)
	if err != nil {
		return Keys{}, err
	}
	return c.keys(v, now), nil
}

func (c *entityCodec[T]) Data(e statustable.Entity) (map[string]any, error) {
	v, err := c.cast(e)
	if err != nil {
		return nil, err
	}
	return c.data(v), nil
}

func (c *entityCodec[T]) Decode(it item.GenericItem) (statustable.Entity, error) {
	v, err := c.decode(it)
	if err != nil {
		return nil, fmt.Errorf("decode %s %s/%s: %w", c.typ, it.PK, it.SK, err)
	}
	return v, nil
}
