package ddbstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// badgerLogger forwards Badger's printf style logs to slog.
type badgerLogger struct {
	log *slog.Logger
}

var _ badger.Logger = badgerLogger{}

func newBadgerLogger(l *slog.Logger) badgerLogger {
	return badgerLogger{log: l.With("component", "badger")}
}

func (b badgerLogger) logf(level slog.Level, format string, args ...interface{}) {
	if !b.log.Enabled(context.Background(), level) {
		return
	}
	b.log.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.logf(slog.LevelError, format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.logf(slog.LevelWarn, format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.logf(slog.LevelInfo, format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.logf(slog.LevelDebug, format, args...)
}
