package ddbstore

import (
	"context"
	"errors"

	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/dgraph-io/badger/v4"
)

// Get retrieves a single item by its primary key. It returns nil if absent.
func (s *Store) Get(ctx context.Context, pk, sk string) (*item.GenericItem, error) {
	singletable.MustKey(pk, sk)
	if err := singletable.CheckContext(ctx, "get"); err != nil {
		return nil, err
	}

	key := s.encodeKey(s.def.Key(pk, sk))
	var found *item.GenericItem
	err := s.db.View(func(txn *badger.Txn) error {
		badgerItem, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return badgerItem.Value(func(val []byte) error {
			it, err := deserializeItem(val)
			if err != nil {
				return err
			}
			found = &it
			return nil
		})
	})
	if err != nil {
		return nil, singletable.Unavailable("get", err)
	}
	return found, nil
}
