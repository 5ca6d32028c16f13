package ddbstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// Put creates or replaces an item and moves its index entry along with it.
func (s *Store) Put(ctx context.Context, it item.GenericItem) error {
	singletable.MustValid(it)
	if err := singletable.CheckContext(ctx, "put"); err != nil {
		return err
	}

	av, itemBytes, err := serializeItem(it)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", it.PK, it.SK, err)
	}
	base, err := s.def.ExtractPrimaryKey(av)
	if err != nil {
		return fmt.Errorf("extract primary key: %w", err)
	}
	key := s.encodeKey(base)

	err = s.db.Update(func(txn *badger.Txn) error {
		oldItem, err := readAV(txn, key)
		if err != nil {
			return err
		}
		if err := txn.SetEntry(s.entry(key, itemBytes, it.TTL)); err != nil {
			return err
		}
		if s.gsi != nil {
			if err := s.updateGSI(txn, av, oldItem, itemBytes, it.TTL); err != nil {
				return fmt.Errorf("update GSI %s: %w", s.gsi.definition.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return singletable.Unavailable("put", err)
	}
	s.log.DebugContext(ctx, "put item", "pk", it.PK, "sk", it.SK, "itemType", it.ItemType)
	return nil
}

func (s *Store) entry(key, val []byte, ttl *int64) *badger.Entry {
	e := badger.NewEntry(key, val)
	if s.reap && ttl != nil && *ttl > 0 {
		e.ExpiresAt = uint64(*ttl)
	}
	return e
}

// readAV returns the stored item under key, or nil if there is none.
func readAV(txn *badger.Txn, key []byte) (map[string]types.AttributeValue, error) {
	existing, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var av map[string]types.AttributeValue
	err = existing.Value(func(val []byte) error {
		av, err = deserializeAV(val)
		return err
	})
	return av, err
}

// gsiKey returns the index entry key of doc, or nil if doc is not indexed.
func (s *Store) gsiKey(doc map[string]types.AttributeValue) ([]byte, error) {
	if doc == nil {
		return nil, nil
	}
	if !s.gsi.definition.Keys.Has(doc) {
		return nil, nil
	}
	gsiPK, err := s.gsi.definition.ExtractPrimaryKey(doc)
	if err != nil {
		return nil, err
	}
	base, err := s.def.ExtractPrimaryKey(doc)
	if err != nil {
		return nil, err
	}
	return s.gsi.encodeKey(gsiPK, base), nil
}

// updateGSI replaces the index entry of oldItem with the one of newItem.
// Index entries store the full item.
func (s *Store) updateGSI(txn *badger.Txn, newItem, oldItem map[string]types.AttributeValue, itemBytes []byte, ttl *int64) error {
	newKey, err := s.gsiKey(newItem)
	if err != nil {
		return err
	}
	oldKey, err := s.gsiKey(oldItem)
	if err != nil {
		return err
	}
	if oldKey != nil && !bytes.Equal(oldKey, newKey) {
		if err := txn.Delete(oldKey); err != nil {
			return err
		}
	}
	if newKey == nil {
		return nil
	}
	return txn.SetEntry(s.entry(newKey, itemBytes, ttl))
}
