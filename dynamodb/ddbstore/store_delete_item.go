package ddbstore

import (
	"context"
	"fmt"

	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/dgraph-io/badger/v4"
)

// Delete removes an item and its index entry. Deleting a missing item is not an error.
func (s *Store) Delete(ctx context.Context, pk, sk string) error {
	singletable.MustKey(pk, sk)
	if err := singletable.CheckContext(ctx, "delete"); err != nil {
		return err
	}

	key := s.encodeKey(s.def.Key(pk, sk))
	err := s.db.Update(func(txn *badger.Txn) error {
		oldItem, err := readAV(txn, key)
		if err != nil || oldItem == nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		if s.gsi == nil {
			return nil
		}
		gsiKey, err := s.gsiKey(oldItem)
		if err != nil {
			return fmt.Errorf("GSI key of deleted item: %w", err)
		}
		if gsiKey != nil {
			return txn.Delete(gsiKey)
		}
		return nil
	})
	if err != nil {
		return singletable.Unavailable("delete", err)
	}
	s.log.DebugContext(ctx, "delete item", "pk", pk, "sk", sk)
	return nil
}
