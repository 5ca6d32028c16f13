package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/acksell/statustable"
	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/repository"
	"github.com/acksell/statustable/dynamodb/singletable"
)

// session is an opened store plus the flags of the running command.
type session struct {
	flags  *commonFlags
	store  singletable.Store
	closer func() error
	log    *slog.Logger
}

// open parses args and opens the configured store. minArgs and maxArgs bound
// the positional arguments.
func open(ctx context.Context, name string, args []string, minArgs, maxArgs int) (*session, []string, error) {
	fs, flags := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	pos := fs.Args()
	if len(pos) < minArgs || len(pos) > maxArgs {
		return nil, nil, fmt.Errorf("expected %s arguments, got %d", argCount(minArgs, maxArgs), len(pos))
	}
	for i, a := range pos {
		if strings.TrimSpace(a) == "" {
			return nil, nil, fmt.Errorf("argument %d is empty", i+1)
		}
	}
	cfg, logger, err := flags.load()
	if err != nil {
		return nil, nil, err
	}
	store, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return &session{flags: flags, store: store, closer: closer, log: logger}, pos, nil
}

func argCount(minArgs, maxArgs int) string {
	if minArgs == maxArgs {
		return strconv.Itoa(minArgs)
	}
	return fmt.Sprintf("%d to %d", minArgs, maxArgs)
}

func (s *session) close() {
	if err := s.closer(); err != nil {
		fmt.Fprintf(os.Stderr, "stctl: closing store: %v\n", err)
	}
}

func runGet(ctx context.Context, args []string) error {
	s, pos, err := open(ctx, "get", args, 2, 2)
	if err != nil {
		return err
	}
	defer s.close()

	it, err := s.store.Get(ctx, pos[0], pos[1])
	if err != nil {
		return err
	}
	if it == nil || (s.flags.live && it.IsExpired(time.Now())) {
		return errNotFound
	}
	return printItems(os.Stdout, singletable.Seq(func(yield func(item.GenericItem, error) bool) {
		yield(*it, nil)
	}), false)
}

func runQuery(ctx context.Context, args []string) error {
	s, pos, err := open(ctx, "query", args, 1, 2)
	if err != nil {
		return err
	}
	defer s.close()

	prefix := ""
	if len(pos) == 2 {
		prefix = pos[1]
	}
	return printItems(os.Stdout, s.store.QueryByPartition(ctx, pos[0], prefix), s.flags.live)
}

func runIndex(ctx context.Context, args []string) error {
	s, pos, err := open(ctx, "index", args, 1, 3)
	if err != nil {
		return err
	}
	defer s.close()

	var r *singletable.Range
	switch len(pos) {
	case 2:
		r = singletable.AtLeast(pos[1])
	case 3:
		r = singletable.Between(pos[1], pos[2])
	}
	return printItems(os.Stdout, s.store.QueryByIndex(ctx, pos[0], r), s.flags.live)
}

func runDelete(ctx context.Context, args []string) error {
	s, pos, err := open(ctx, "delete", args, 2, 2)
	if err != nil {
		return err
	}
	defer s.close()

	return s.store.Delete(ctx, pos[0], pos[1])
}

func runPutWorkload(ctx context.Context, args []string) error {
	s, pos, err := open(ctx, "put-workload", args, 4, 4)
	if err != nil {
		return err
	}
	defer s.close()

	ws, err := parseWorkload(pos)
	if err != nil {
		return err
	}
	saved, err := repository.New(s.store, repository.WithLogger(s.log)).Save(ctx, ws)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(saved)
}

func parseWorkload(pos []string) (statustable.WorkloadStatus, error) {
	level := statustable.WorkloadLevel(strings.ToUpper(pos[1]))
	switch level {
	case statustable.WorkloadLow, statustable.WorkloadMedium, statustable.WorkloadHigh:
	default:
		return statustable.WorkloadStatus{}, fmt.Errorf("unknown workload level %q", pos[1])
	}
	projects, err1 := strconv.Atoi(pos[2])
	tasks, err2 := strconv.Atoi(pos[3])
	if err := errors.Join(err1, err2); err != nil {
		return statustable.WorkloadStatus{}, err
	}
	if projects < 0 || tasks < 0 {
		return statustable.WorkloadStatus{}, errors.New("counts must not be negative")
	}
	return statustable.WorkloadStatus{
		UserID:       pos[0],
		Level:        level,
		ProjectCount: projects,
		TaskCount:    tasks,
	}, nil
}

func runCreateTable(ctx context.Context, args []string) error {
	fs, flags := newFlagSet("create-table")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, logger, err := flags.load()
	if err != nil {
		return err
	}
	client, err := openDynamo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := client.CreateTable(ctx); err != nil {
		return err
	}
	fmt.Printf("created table %s\n", cfg.Table)
	return nil
}

func runValidate(ctx context.Context, args []string) error {
	fs, flags := newFlagSet("validate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, logger, err := flags.load()
	if err != nil {
		return err
	}
	client, err := openDynamo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := client.Validate(ctx); err != nil {
		return err
	}
	fmt.Printf("table %s matches the expected schema\n", cfg.Table)
	return nil
}

// printItems writes one JSON document per item. With live set, items past
// their TTL are skipped.
func printItems(w io.Writer, seq singletable.Seq, live bool) error {
	enc := json.NewEncoder(w)
	now := time.Now()
	for it, err := range seq {
		if err != nil {
			return err
		}
		if live && it.IsExpired(now) {
			continue
		}
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
