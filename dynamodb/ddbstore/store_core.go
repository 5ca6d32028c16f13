package ddbstore

import (
	"fmt"
	"log/slog"

	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/acksell/statustable/dynamodb/table"
	"github.com/dgraph-io/badger/v4"
)

// Store is a singletable.Store backed by BadgerDB. Every write runs in one
// Badger transaction covering the item and its index entry.
type Store struct {
	db       *badger.DB
	def      table.TableDefinition
	gsi      *gsiSchema
	log      *slog.Logger
	pageSize int
	reap     bool
}

var _ singletable.Store = (*Store)(nil)

type gsiSchema struct {
	tableName  string
	definition table.GSIDefinition
}

const defaultPageSize = 100

// StoreOptions configures the BadgerDB store.
type StoreOptions struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Logger receives the store's and Badger's own logs. If nil, logging is disabled.
	Logger *slog.Logger
	// PageSize is the number of items read per transaction while iterating a query.
	PageSize int
	// ReapExpired hands item TTLs to Badger, which then drops expired items
	// on its own schedule. Off by default, expired items stay readable until
	// deleted and are filtered by the codec.
	ReapExpired bool
}

// New opens a BadgerDB-backed store for the table described by def.
func New(opts StoreOptions, def table.TableDefinition) (*Store, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("table name is required")
	}
	badgerOpts := badger.DefaultOptions(opts.Path)

	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	logger := opts.Logger
	if logger != nil {
		badgerOpts = badgerOpts.WithLogger(newBadgerLogger(logger))
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{
		db:       db,
		def:      def,
		log:      logger.With("table", def.Name),
		pageSize: opts.PageSize,
		reap:     opts.ReapExpired,
	}
	if s.pageSize <= 0 {
		s.pageSize = defaultPageSize
	}
	if g, ok := def.GSI(); ok {
		s.gsi = &gsiSchema{tableName: def.Name, definition: g}
	}
	return s, nil
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}
