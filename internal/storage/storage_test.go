package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/logging"
	"github.com/manav03panchal/pfsheet/internal/model"
)

// Helper to create an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// testBackends returns a fresh in-memory instance of every backend.
func testBackends(t *testing.T) map[string]Backend {
	sqlite, err := OpenSQLite(MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Backend{
		BackendBadger: NewBadgerBackend(setupTestDB(t)),
		BackendSQLite: sqlite,
	}
}

// forEachBackend runs fn against a repository over each backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, repo *TimesheetRepo)) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, NewTimesheetRepo(backend, nil))
		})
	}
}

func input(legajo, fecha, tiempo string) model.Input {
	return model.Input{
		"legajo_personal":   legajo,
		"fecha":             fecha,
		"cliente":           "1",
		"contrato_division": "IOT",
		"contrato_tipo":     "7",
		"contrato_numero":   "1456",
		"tarea":             "ATC",
		"tiempo":            tiempo,
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

var ctx = context.Background()

// =============================================================================
// DB Tests
// =============================================================================

func TestOpenClose(t *testing.T) {
	t.Run("in_memory", func(t *testing.T) {
		db, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		assert.Nil(t, db.lock)
		assert.NoError(t, db.Close())
	})

	t.Run("empty_path_uses_in_memory", func(t *testing.T) {
		db, err := Open(Options{Path: ""})
		require.NoError(t, err)
		assert.NoError(t, db.Close())
	})
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.Contains(t, path, "pfsheet")
	assert.Equal(t, "db", filepath.Base(path))
}

// put stores ts directly, bypassing the repo.
func put(t *testing.T, db *DB, ts *model.Timesheet) {
	t.Helper()
	require.NoError(t, db.db.Update(func(txn *badger.Txn) error {
		return setTxn(txn, ts)
	}))
}

func TestCRUDHelpers(t *testing.T) {
	db := setupTestDB(t)
	put(t, db, &model.Timesheet{ID: 5, Tarea: "ATC"})

	got := &model.Timesheet{}
	require.NoError(t, db.Get(model.TimesheetKey(5), got))
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, "ATC", got.Tarea)

	err := db.Get(model.TimesheetKey(6), got)
	assert.True(t, IsErrKeyNotFound(err))
}

func TestGetFilteredByPrefix(t *testing.T) {
	db := setupTestDB(t)
	for i := int64(1); i <= 12; i++ {
		put(t, db, &model.Timesheet{ID: i, Tarea: fmt.Sprintf("T%d", i%2)})
	}
	newFunc := func() *model.Timesheet { return &model.Timesheet{} }

	all, err := GetFilteredByPrefix(db, model.PrefixTimesheet+":", newFunc, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 12)
	// Zero-padded keys iterate in numeric order
	assert.Equal(t, int64(9), all[8].ID)
	assert.Equal(t, int64(10), all[9].ID)

	odd, err := GetFilteredByPrefix(db, model.PrefixTimesheet+":", newFunc, func(ts *model.Timesheet) bool {
		return ts.Tarea == "T1"
	}, 3)
	require.NoError(t, err)
	require.Len(t, odd, 3)
	assert.Equal(t, []int64{1, 3, 5}, []int64{odd[0].ID, odd[1].ID, odd[2].ID})
}

func TestOpenBackend(t *testing.T) {
	for _, name := range []string{"", BackendBadger, BackendSQLite} {
		b, err := OpenBackend(name, MemoryDSN)
		require.NoError(t, err, name)
		require.NoError(t, b.Close())
	}

	_, err := OpenBackend("postgres", "")
	assert.Error(t, err)
}

// =============================================================================
// Repository Tests
// =============================================================================

func TestCreate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo *TimesheetRepo) {
		now := time.Date(2025, 9, 5, 18, 0, 0, 0, time.UTC)
		repo.SetClock(fixedClock(now))

		in := input("1234", "05/09/2025", "1.5h")
		in["nombre_personal"] = "Ana"
		ts, err := repo.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int64(1), ts.ID)
		assert.Equal(t, "2025-09-05", ts.Fecha)
		assert.Equal(t, 90, ts.TiempoMinutos)
		assert.True(t, ts.CreatedAt.Equal(now))
		assert.True(t, ts.UpdatedAt.Equal(now))

		got, err := repo.Get(ctx, ts.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.NombrePersonal)
		assert.Equal(t, "1234", got.LegajoPersonal)
		assert.Equal(t, 90, got.TiempoMinutos)
		assert.True(t, got.CreatedAt.Equal(now))

		second, err := repo.Create(ctx, input("1234", "2025-09-06", "60"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.ID)
	})
}

func TestCreateValidationLeavesStoreUnchanged(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo *TimesheetRepo) {
		for _, name := range model.RequiredFields {
			in := input("1234", "2025-09-05", "90")
			delete(in, name)
			_, err := repo.Create(ctx, in)
			require.ErrorIs(t, err, errors.ErrMissingField)
			ue, ok := errors.AsUserError(err)
			require.True(t, ok)
			assert.Equal(t, name, ue.Field)
		}

		_, err := repo.Create(ctx, input("1234", "2025-02-30", "90"))
		assert.ErrorIs(t, err, errors.ErrInvalidDate)
		_, err = repo.Create(ctx, input("1234", "2025-09-05", "25:00"))
		assert.ErrorIs(t, err, errors.ErrInvalidDuration)

		res, err := repo.Query(ctx, Filter{})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Count)

		// Failed creates do not consume ids
		ts, err := repo.Create(ctx, input("1234", "2025-09-05", "90"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), ts.ID)
	})
}

func TestCreateRejectedLogMasksInput(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: slog.LevelDebug, JSON: true, Output: &buf})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	repo := NewTimesheetRepo(NewBadgerBackend(setupTestDB(t)), nil)
	in := input("1234", "2025-09-05", "25:00")
	in["nombre_personal"] = "Ana Gomez"

	_, err := repo.Create(ctx, in)
	require.ErrorIs(t, err, errors.ErrInvalidDuration)

	out := buf.String()
	assert.Contains(t, out, "create rejected")
	assert.Contains(t, out, `"legajo_personal":"1234"`)
	assert.NotContains(t, out, "Ana Gomez")
}

func TestGetNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo *TimesheetRepo) {
		_, err := repo.Get(ctx, 99)
		require.ErrorIs(t, err, errors.ErrNotFound)
		ue, ok := errors.AsUserError(err)
		require.True(t, ok)
		assert.Equal(t, "99", ue.Value)
	})
}

func TestDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo *TimesheetRepo) {
		ts, err := repo.Create(ctx, input("1234", "2025-09-05", "90"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, ts.ID))

		_, err = repo.Get(ctx, ts.ID)
		assert.ErrorIs(t, err, errors.ErrNotFound)

		// A second delete of the same id fails
		assert.ErrorIs(t, repo.Delete(ctx, ts.ID), errors.ErrNotFound)
	})
}

func TestIDsNeverReused(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo *TimesheetRepo) {
		a, err := repo.Create(ctx, input("1", "2025-09-05", "90"))
		require.NoError(t, err)
		b, err := repo.Create(ctx, input("1", "2025-09-05", "90"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, b.ID))
		require.NoError(t, repo.Delete(ctx, a.ID))

		c, err := repo.Create(ctx, input("1", "2025-09-05", "90"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), c.ID)
	})
}

func TestUpdate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo *TimesheetRepo) {
		created := time.Date(2025, 9, 5, 18, 0, 0, 0, time.UTC)
		later := created.Add(time.Hour)
		repo.SetClock(fixedClock(created))

		in := input("1234", "2025-09-05", "90")
		in["observaciones"] = "soporte"
		ts, err := repo.Create(ctx, in)
		require.NoError(t, err)

		repo.SetClock(fixedClock(later))

		t.Run("merges_present_fields", func(t *testing.T) {
			updated, err := repo.Update(ctx, ts.ID, model.Input{"tiempo": "02:00", "tarea": "NF", "id": 77})
			require.NoError(t, err)
			assert.Equal(t, ts.ID, updated.ID)
			assert.Equal(t, 120, updated.TiempoMinutos)
			assert.Equal(t, "NF", updated.Tarea)
			assert.Equal(t, "2025-09-05", updated.Fecha)
			assert.Equal(t, "soporte", updated.Observaciones)
			assert.True(t, updated.CreatedAt.Equal(created))
			assert.True(t, updated.UpdatedAt.Equal(later))

			got, err := repo.Get(ctx, ts.ID)
			require.NoError(t, err)
			assert.Equal(t, 120, got.TiempoMinutos)
			assert.Equal(t, "NF", got.Tarea)
		})

		t.Run("clears_optional_field", func(t *testing.T) {
			updated, err := repo.Update(ctx, ts.ID, model.Input{"observaciones": nil})
			require.NoError(t, err)
			assert.Equal(t, "", updated.Observaciones)
		})

		t.Run("tiempo_minutos", func(t *testing.T) {
			updated, err := repo.Update(ctx, ts.ID, model.Input{"tiempo_minutos": 45})
			require.NoError(t, err)
			assert.Equal(t, 45, updated.TiempoMinutos)
		})

		t.Run("invalid_field_changes_nothing", func(t *testing.T) {
			before, err := repo.Get(ctx, ts.ID)
			require.NoError(t, err)

			_, err = repo.Update(ctx, ts.ID, model.Input{"tarea": "X", "fecha": "31/04/2025"})
			assert.ErrorIs(t, err, errors.ErrInvalidDate)

			_, err = repo.Update(ctx, ts.ID, model.Input{"cliente": ""})
			assert.ErrorIs(t, err, errors.ErrMissingField)

			after, err := repo.Get(ctx, ts.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Tarea, after.Tarea)
			assert.Equal(t, before.Cliente, after.Cliente)
			assert.Equal(t, before.Fecha, after.Fecha)
		})

		t.Run("empty_input_returns_current", func(t *testing.T) {
			got, err := repo.Update(ctx, ts.ID, model.Input{})
			require.NoError(t, err)
			assert.Equal(t, ts.ID, got.ID)
		})

		t.Run("missing_id", func(t *testing.T) {
			_, err := repo.Update(ctx, 404, model.Input{"tarea": "X"})
			assert.ErrorIs(t, err, errors.ErrNotFound)
		})
	})
}

func TestConcurrentCreates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo *TimesheetRepo) {
		const n = 40
		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ts, err := repo.Create(ctx, input("1234", "2025-09-05", "90"))
				if assert.NoError(t, err) {
					ids <- ts.ID
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := map[int64]bool{}
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}

// =============================================================================
// Query Tests
// =============================================================================

func seedQuery(t *testing.T, repo *TimesheetRepo) {
	rows := []model.Input{
		input("1234", "2025-09-07", "60"), // id 1
		input("1234", "2025-09-05", "60"), // id 2
		input("5678", "2025-09-05", "60"), // id 3
		input("1234", "2025-08-31", "60"), // id 4
		input("5678", "2025-09-10", "60"), // id 5
	}
	for _, in := range rows {
		_, err := repo.Create(ctx, in)
		require.NoError(t, err)
	}
}

func ids(res *Result) []int64 {
	out := make([]int64, len(res.Rows))
	for i, ts := range res.Rows {
		out[i] = ts.ID
	}
	return out
}

func TestQuery(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo *TimesheetRepo) {
		seedQuery(t, repo)

		tests := []struct {
			name     string
			filter   Filter
			expected []int64
			count    int
		}{
			{"all_ordered_by_fecha_then_id", Filter{}, []int64{4, 2, 3, 1, 5}, 5},
			{"legajo", Filter{Legajo: "1234"}, []int64{4, 2, 1}, 3},
			{"legajo_trimmed", Filter{Legajo: " 5678 "}, []int64{3, 5}, 2},
			{"inclusive_range", Filter{DateFrom: "2025-09-05", DateTo: "2025-09-07"}, []int64{2, 3, 1}, 3},
			{"range_other_forms", Filter{DateFrom: "05/09/2025", DateTo: "1757203200"}, []int64{2, 3, 1}, 3},
			{"from_only", Filter{DateFrom: "2025-09-08"}, []int64{5}, 1},
			{"to_only", Filter{DateTo: "2025-09-01"}, []int64{4}, 1},
			{"limit", Filter{Limit: 2}, []int64{4, 2}, 5},
			{"offset", Filter{Limit: 2, Offset: 2}, []int64{3, 1}, 5},
			{"offset_past_end", Filter{Offset: 10}, []int64{}, 5},
			{"negative_offset", Filter{Offset: -3, Limit: 1}, []int64{4}, 5},
			{"no_match", Filter{Legajo: "0000"}, []int64{}, 0},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res, err := repo.Query(ctx, tt.filter)
				require.NoError(t, err)
				assert.NotNil(t, res.Rows)
				assert.Equal(t, tt.expected, ids(res))
				assert.Equal(t, tt.count, res.Count)
			})
		}

		t.Run("invalid_date_filter", func(t *testing.T) {
			_, err := repo.Query(ctx, Filter{DateFrom: "2025-02-30"})
			require.ErrorIs(t, err, errors.ErrInvalidDate)
			ue, _ := errors.AsUserError(err)
			assert.Equal(t, "date_from", ue.Field)
		})
	})
}

func TestFilterPage(t *testing.T) {
	rows := []*model.Timesheet{
		{ID: 3, Fecha: "2025-09-02"},
		{ID: 1, Fecha: "2025-09-02"},
		{ID: 2, Fecha: "2025-09-01"},
	}
	res := Filter{Limit: 2}.Page(rows)
	assert.Equal(t, []int64{2, 1}, ids(res))
	assert.Equal(t, 3, res.Count)

	empty := Filter{}.Page(nil)
	assert.NotNil(t, empty.Rows)
	assert.Equal(t, 0, empty.Count)
}

// =============================================================================
// Persistence Tests
// =============================================================================

func TestPersistence(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		path    func(dir string) string
	}{
		{"badger", BackendBadger, func(dir string) string { return filepath.Join(dir, "db") }},
		{"sqlite", BackendSQLite, func(dir string) string { return filepath.Join(dir, "data", "pfsheet.db") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t.TempDir())

			b, err := OpenBackend(tt.backend, path)
			require.NoError(t, err)
			repo := NewTimesheetRepo(b, nil)
			first, err := repo.Create(ctx, input("1234", "2025-09-05", "90"))
			require.NoError(t, err)
			second, err := repo.Create(ctx, input("1234", "2025-09-06", "90"))
			require.NoError(t, err)
			require.NoError(t, repo.Delete(ctx, second.ID))
			require.NoError(t, repo.Close())

			b, err = OpenBackend(tt.backend, path)
			require.NoError(t, err)
			repo = NewTimesheetRepo(b, nil)
			defer repo.Close()

			got, err := repo.Get(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, 90, got.TiempoMinutos)

			third, err := repo.Create(ctx, input("1234", "2025-09-07", "90"))
			require.NoError(t, err)
			assert.Equal(t, int64(3), third.ID)
		})
	}
}

// =============================================================================
// Safety Tests
// =============================================================================

func TestSafeWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	require.NoError(t, SafeWrite(path, []byte("first"), 0644))
	require.NoError(t, SafeWrite(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestEnsureDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestGetDiskSpace(t *testing.T) {
	info, err := GetDiskSpace(filepath.Join(t.TempDir(), "missing", "child"))
	require.NoError(t, err)
	assert.Greater(t, info.TotalBytes, uint64(0))
	assert.LessOrEqual(t, info.FreeBytes, info.TotalBytes)
}
