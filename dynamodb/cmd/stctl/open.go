package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/acksell/statustable/dynamodb/ddbsdk"
	"github.com/acksell/statustable/dynamodb/ddbstore"
	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/acksell/statustable/internal/config"
)

// commonFlags are shared by every command that touches the table.
type commonFlags struct {
	configPath string
	live       bool
}

func newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	var c commonFlags
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&c.configPath, "config", "", "configuration file")
	fs.BoolVar(&c.live, "live", false, "skip items past their TTL")
	return fs, &c
}

func (c *commonFlags) load() (config.Config, *slog.Logger, error) {
	var (
		cfg  config.Config
		path string
		err  error
	)
	if c.configPath != "" {
		path = c.configPath
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefault()
	}
	if err != nil {
		return config.Config{}, nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	return cfg, logger, nil
}

// openStore opens the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (singletable.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendDynamoDB:
		client, err := openDynamo(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil
	default:
		store, err := ddbstore.New(ddbstore.StoreOptions{
			Path:        cfg.Badger.Path,
			Logger:      logger,
			ReapExpired: cfg.Badger.ReapExpired,
		}, cfg.TableDefinition())
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("opened badger store", "path", cfg.Badger.Path)
		return store, store.Close, nil
	}
}

func openDynamo(ctx context.Context, cfg config.Config, logger *slog.Logger) (*ddbsdk.Client, error) {
	if cfg.Backend != config.BackendDynamoDB {
		return nil, fmt.Errorf("backend is %s, this command needs dynamodb", cfg.Backend)
	}
	awsCfg, err := ddbsdk.LoadConfig(ctx, cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint)
	if err != nil {
		return nil, err
	}
	logger.Debug("using dynamodb", "region", cfg.DynamoDB.Region, "endpoint", cfg.DynamoDB.Endpoint)
	return ddbsdk.New(ddbsdk.NewFromConfig(awsCfg, cfg.DynamoDB.Endpoint), cfg.TableDefinition(), ddbsdk.WithLogger(logger))
}
