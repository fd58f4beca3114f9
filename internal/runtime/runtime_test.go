package runtime

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/pfsheet/internal/config"
	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/output"
	"github.com/manav03panchal/pfsheet/internal/storage"
)

func memoryConfig(t *testing.T, backend string) *config.Config {
	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Storage.Path = config.MemoryDatabase
	cfg.Export.Dir = t.TempDir()
	return cfg
}

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.NotNil(t, opts.Config)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	for _, backend := range []string{config.BackendBadger, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx, err := New(Options{Config: memoryConfig(t, backend)})
			require.NoError(t, err)
			defer ctx.Close()

			assert.NotNil(t, ctx.Repo)
			assert.NotNil(t, ctx.Exporter)
			assert.NotNil(t, ctx.Formatter)
			assert.Equal(t, 1000, ctx.DefaultLimit())
		})
	}
}

func TestNewWithOptions(t *testing.T) {
	ctx, err := New(Options{
		Config:    memoryConfig(t, config.BackendBadger),
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
	})
	require.NoError(t, err)
	defer ctx.Close()

	assert.True(t, ctx.IsJSON())
	assert.False(t, ctx.IsPlain())
	assert.Equal(t, output.ColorNever, ctx.Formatter.ColorMode)
	assert.True(t, ctx.Debug)
}

func TestNewUsesTimezone(t *testing.T) {
	cfg := memoryConfig(t, config.BackendBadger)
	cfg.Dates.Timezone = "America/Argentina/Buenos_Aires"

	ctx, err := New(Options{Config: cfg})
	require.NoError(t, err)
	defer ctx.Close()

	// 2025-09-05 01:00 UTC is still the 4th in Buenos Aires
	ts, err := ctx.Repo.Create(context.Background(), model.Input{
		"legajo_personal":   "1",
		"fecha":             "1757034000",
		"cliente":           "1",
		"contrato_division": "IOT",
		"contrato_tipo":     "7",
		"contrato_numero":   "1456",
		"tarea":             "ATC",
		"tiempo":            "60",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-09-04", ts.Fecha)
}

func TestNewWithTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.csv")
	require.NoError(t, os.WriteFile(path, []byte("#;custom header\n"), 0644))

	cfg := memoryConfig(t, config.BackendBadger)
	cfg.Export.Template = path

	ctx, err := New(Options{Config: cfg})
	require.NoError(t, err)
	defer ctx.Close()

	art, err := ctx.Exporter.Export(context.Background(), storage.Filter{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(art.Content, "#;custom header\n"))
	assert.Equal(t, 10, strings.Count(art.Content, "\n"))
}

func TestNewMissingTemplate(t *testing.T) {
	cfg := memoryConfig(t, config.BackendBadger)
	cfg.Export.Template = filepath.Join(t.TempDir(), "missing.csv")

	_, err := New(Options{Config: cfg})
	assert.ErrorIs(t, err, errors.ErrInvalidTemplate)
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := memoryConfig(t, "mongo")

	t.Run("context", func(t *testing.T) {
		_, err := New(Options{Config: cfg})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open mongo store")
		assert.Empty(t, errors.GetStack(err))
	})

	t.Run("debug_captures_stack", func(t *testing.T) {
		_, err := New(Options{Config: cfg, Debug: true})
		require.Error(t, err)
		assert.NotEmpty(t, errors.GetStack(err))
	})
}

func TestCLIFormatter(t *testing.T) {
	ctx, err := New(Options{Config: memoryConfig(t, config.BackendBadger)})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.CLIFormatter())
}
