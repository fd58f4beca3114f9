package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/storage"
)

func setupWriter(t *testing.T) *Writer {
	w := NewWriter(t.TempDir(), nil)
	w.Now = func() time.Time { return time.Date(2025, 10, 3, 9, 0, 0, 0, time.UTC) }
	return w
}

func setupService(t *testing.T) *Service {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	repo := storage.NewTimesheetRepo(storage.NewBadgerBackend(db), nil)
	t.Cleanup(func() { repo.Close() })
	return NewService(repo, setupWriter(t))
}

// =============================================================================
// Writer Tests
// =============================================================================

func TestDefaultDir(t *testing.T) {
	dir := DefaultDir()
	assert.Equal(t, "exports", filepath.Base(dir))
	assert.Contains(t, dir, "pfsheet")
}

func TestBaseName(t *testing.T) {
	w := setupWriter(t)

	tests := []struct {
		name     string
		dateFrom string
		legajo   string
		expected string
	}{
		{"date_and_legajo", "2025-09-05", "1234", "PF_PlantillaRegTiempos_202509_1234"},
		{"no_legajo", "2025-01-31", "", "PF_PlantillaRegTiempos_202501_todos"},
		{"no_date_uses_now", "", "1234", "PF_PlantillaRegTiempos_202510_1234"},
		{"spaces_in_legajo", "2025-09-05", "12 34", "PF_PlantillaRegTiempos_202509_12_34"},
		{"path_chars_in_legajo", "2025-09-05", "../x", "PF_PlantillaRegTiempos_202509__x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.BaseName(tt.dateFrom, tt.legajo))
		})
	}
}

func TestWrite(t *testing.T) {
	w := setupWriter(t)
	rows := []*model.Timesheet{normalized(t, sampleInput())}

	art, err := w.Write(context.Background(), rows, "2025-09-01", "1234")
	require.NoError(t, err)

	assert.Equal(t, "PF_PlantillaRegTiempos_202509_1234.csv", art.Filename)
	assert.Equal(t, filepath.Join(w.Dir, art.Filename), art.Path)
	assert.Equal(t, 1, art.Count)

	id, err := uuid.Parse(art.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, art.Content, string(data))
	assert.Equal(t, string(w.Codec.Marshal(rows)), art.Content)
}

func TestWriteCollisionSuffix(t *testing.T) {
	w := setupWriter(t)
	ctx := context.Background()

	var names []string
	for i := 0; i < 3; i++ {
		art, err := w.Write(ctx, nil, "2025-09-01", "")
		require.NoError(t, err)
		names = append(names, art.Filename)
	}

	assert.Equal(t, []string{
		"PF_PlantillaRegTiempos_202509_todos.csv",
		"PF_PlantillaRegTiempos_202509_todos_2.csv",
		"PF_PlantillaRegTiempos_202509_todos_3.csv",
	}, names)

	entries, err := os.ReadDir(w.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWriteKeepsExistingFile(t *testing.T) {
	w := setupWriter(t)
	existing := filepath.Join(w.Dir, "PF_PlantillaRegTiempos_202509_todos.csv")
	require.NoError(t, os.WriteFile(existing, []byte("earlier export\n"), 0644))

	art, err := w.Write(context.Background(), nil, "2025-09-01", "")
	require.NoError(t, err)
	assert.Equal(t, "PF_PlantillaRegTiempos_202509_todos_2.csv", art.Filename)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "earlier export\n", string(data))
}

func TestWriteSeparateWritersSameDir(t *testing.T) {
	dir := t.TempDir()
	const writers = 8

	var wg sync.WaitGroup
	names := make([]string, writers)
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := NewWriter(dir, nil)
			art, err := w.Write(context.Background(), nil, "2025-09-01", "")
			errs[i] = err
			if err == nil {
				names[i] = art.Filename
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := range names {
		require.NoError(t, errs[i])
		assert.False(t, seen[names[i]], "duplicate name %s", names[i])
		seen[names[i]] = true
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, writers)
	for _, e := range entries {
		assert.True(t, seen[e.Name()], e.Name())
	}
}

func TestWriteCreatesDir(t *testing.T) {
	w := setupWriter(t)
	w.Dir = filepath.Join(w.Dir, "nested", "exports")

	art, err := w.Write(context.Background(), nil, "", "")
	require.NoError(t, err)
	assert.FileExists(t, art.Path)
}

// =============================================================================
// Service Tests
// =============================================================================

func TestServiceExport(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	for _, fecha := range []string{"2025-09-07", "2025-09-05", "2025-10-01"} {
		in := sampleInput()
		in["fecha"] = fecha
		_, err := s.Repo.Create(ctx, in)
		require.NoError(t, err)
	}
	other := sampleInput()
	other["legajo_personal"] = "5678"
	_, err := s.Repo.Create(ctx, other)
	require.NoError(t, err)

	t.Run("filtered", func(t *testing.T) {
		art, err := s.Export(ctx, storage.Filter{DateFrom: "01/09/2025", DateTo: "2025-09-30", Legajo: "1234", Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, "PF_PlantillaRegTiempos_202509_1234.csv", art.Filename)
		assert.Equal(t, 2, art.Count)

		lines := strings.Split(strings.TrimSuffix(art.Content, "\n"), "\n")
		require.Len(t, lines, HeaderLines+2)
		assert.Contains(t, lines[10], "05/09/2025")
		assert.Contains(t, lines[11], "07/09/2025")
	})

	t.Run("no_matches_header_only", func(t *testing.T) {
		art, err := s.Export(ctx, storage.Filter{Legajo: "0000"})
		require.NoError(t, err)
		assert.Equal(t, 0, art.Count)
		assert.Equal(t, string(DefaultCodec().Marshal(nil)), art.Content)
	})

	t.Run("invalid_filter_date", func(t *testing.T) {
		_, err := s.Export(ctx, storage.Filter{DateFrom: "2025-13-01"})
		assert.ErrorIs(t, err, errors.ErrInvalidDate)
	})
}
