package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("empty uses defaults", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, DefaultBadgerPath, cfg.Badger.Path, "data survives between runs")
	})

	t.Run("empty badger path is in-memory", func(t *testing.T) {
		cfg, err := Parse([]byte("badger:\n  path: \"\"\n"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Badger.Path)
	})

	t.Run("dynamodb", func(t *testing.T) {
		cfg, err := Parse([]byte(`
backend: dynamodb
table: status
logLevel: debug
dynamodb:
  region: eu-west-1
  endpoint: http://localhost:8000
`))
		require.NoError(t, err)
		assert.Equal(t, BackendDynamoDB, cfg.Backend)
		assert.Equal(t, "status", cfg.Table)
		assert.Equal(t, "GSI1", cfg.Index)
		assert.Equal(t, "http://localhost:8000", cfg.DynamoDB.Endpoint)

		level, err := cfg.Level()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, level)

		def := cfg.TableDefinition()
		assert.Equal(t, "status", def.Name)
		gsi, ok := def.GSI()
		require.True(t, ok)
		assert.Equal(t, "GSI1", gsi.Name)
	})

	t.Run("invalid", func(t *testing.T) {
		for name, doc := range map[string]string{
			"unknown backend": "backend: postgres",
			"missing region":  "backend: dynamodb",
			"empty table":     `table: ""`,
			"bad level":       "logLevel: loud",
			"unknown field":   "tabel: typo",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := Parse([]byte(doc))
				assert.Error(t, err)
			})
		}
	})
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, "", Find(nested))

	path := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(path, []byte("badger:\n  path: ./data\n"), 0o644))
	assert.Equal(t, path, Find(nested))

	cfg, err := Load(Find(nested))
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.Badger.Path)
}
