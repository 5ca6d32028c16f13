package ddbstore

import (
	"context"
	"fmt"

	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/dgraph-io/badger/v4"
)

// QueryByPartition yields the items of partition pk whose sort key starts with skPrefix.
func (s *Store) QueryByPartition(ctx context.Context, pk, skPrefix string) singletable.Seq {
	singletable.MustPartition(pk)
	prefix := s.partitionPrefix(pk, skPrefix)
	return s.scan(ctx, "query partition", prefix, prefix, func(item.GenericItem) (bool, bool) {
		return true, true
	})
}

// QueryByIndex yields the items of index partition gsi1pk whose GSI1SK lies in r.
func (s *Store) QueryByIndex(ctx context.Context, gsi1pk string, r *singletable.Range) singletable.Seq {
	singletable.MustPartition(gsi1pk)
	if s.gsi == nil {
		return singletable.Fail(fmt.Errorf("table %s has no secondary index", s.def.Name))
	}
	if r.IsEmpty() {
		return singletable.None()
	}
	prefix := s.gsi.partitionPrefix(gsi1pk)
	start := prefix
	if r != nil && r.Lo != "" {
		start = append(append([]byte{}, prefix...), escapeBytes([]byte(r.Lo))...)
	}
	return s.scan(ctx, "query index", prefix, start, func(it item.GenericItem) (bool, bool) {
		sk := *it.GSI1SK
		if r != nil && r.Hi != "" && sk > r.Hi {
			return false, false
		}
		return r.Contains(sk), true
	})
}

// scan iterates the keys under prefix from start, reading one page per
// transaction so that no transaction is held while the caller consumes items.
// accept reports whether to yield an item and whether to continue.
func (s *Store) scan(ctx context.Context, op string, prefix, start []byte, accept func(item.GenericItem) (keep, more bool)) singletable.Seq {
	return func(yield func(item.GenericItem, error) bool) {
		seek := start
		for {
			if err := singletable.CheckContext(ctx, op); err != nil {
				yield(item.GenericItem{}, err)
				return
			}
			page, next, err := s.readPage(prefix, seek)
			if err != nil {
				yield(item.GenericItem{}, singletable.Unavailable(op, err))
				return
			}
			for _, it := range page {
				keep, more := accept(it)
				if !more {
					return
				}
				if keep && !yield(it, nil) {
					return
				}
			}
			if next == nil {
				return
			}
			seek = next
		}
	}
}

// readPage reads up to pageSize items from seek. next is the key to resume
// from, nil once the prefix is exhausted.
func (s *Store) readPage(prefix, seek []byte) (page []item.GenericItem, next []byte, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = s.pageSize

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if len(page) == s.pageSize {
				next = it.Item().KeyCopy(nil)
				return nil
			}
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			gi, err := deserializeItem(val)
			if err != nil {
				return fmt.Errorf("key %q: %w", it.Item().Key(), err)
			}
			page = append(page, gi)
		}
		return nil
	})
	return page, next, err
}
