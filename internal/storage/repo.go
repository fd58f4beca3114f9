package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/manav03panchal/pfsheet/internal/logging"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/validate"
)

// TimesheetRepo is the timesheet store: CRUD with validation at write time
// and filtered queries. Writes are serialized; reads run concurrently with
// other reads.
type TimesheetRepo struct {
	mu         sync.RWMutex
	backend    Backend
	normalizer *validate.Normalizer
	now        func() time.Time
}

// NewTimesheetRepo creates a repository over backend. A nil normalizer reads
// timestamps as UTC.
func NewTimesheetRepo(backend Backend, normalizer *validate.Normalizer) *TimesheetRepo {
	if normalizer == nil {
		normalizer = validate.NewNormalizer(nil)
	}
	return &TimesheetRepo{
		backend:    backend,
		normalizer: normalizer,
		now:        time.Now,
	}
}

// SetClock replaces the time source used for created_at and updated_at.
func (r *TimesheetRepo) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Normalizer returns the normalizer used for writes and query dates.
func (r *TimesheetRepo) Normalizer() *validate.Normalizer {
	return r.normalizer
}

// Create validates in and stores it as a new record. On any validation
// failure the store is unchanged.
func (r *TimesheetRepo) Create(ctx context.Context, in model.Input) (*model.Timesheet, error) {
	ts, err := r.normalizer.Normalize(in)
	if err != nil {
		logging.DebugContext(ctx, "create rejected", logging.KeyError, err, logging.KeyFields, logging.MaskMap(in))
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	ts.CreatedAt = now
	ts.UpdatedAt = now
	if err := r.backend.Insert(ts); err != nil {
		return nil, err
	}

	logging.LogOperation(ctx, "create",
		logging.KeyTimesheetID, ts.ID,
		logging.KeyLegajo, ts.LegajoPersonal,
		model.FieldNombrePersonal, ts.NombrePersonal,
	)
	return ts.Clone(), nil
}

// Get returns the record with id.
func (r *TimesheetRepo) Get(ctx context.Context, id int64) (*model.Timesheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backend.Get(id)
}

// Update validates the fields present in in and merges them into the record
// with id. Unspecified fields are untouched and created_at never changes.
// An input that changes nothing returns the record as stored.
func (r *TimesheetRepo) Update(ctx context.Context, id int64, in model.Input) (*model.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.backend.Get(id)
	if err != nil {
		return nil, err
	}

	patch, err := r.normalizer.NormalizePatch(in)
	if err != nil {
		logging.DebugContext(ctx, "update rejected", logging.KeyTimesheetID, id, logging.KeyError, err)
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	updated := current.Clone()
	patch.Apply(updated)
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = r.now().UTC()

	if err := r.backend.Replace(updated); err != nil {
		return nil, err
	}

	logging.LogOperation(ctx, "update",
		logging.KeyTimesheetID, id,
		logging.KeyFields, strings.Join(patch.Fields(), ","),
	)
	return updated, nil
}

// Delete removes the record with id permanently. Deleting a missing id,
// including one already deleted, fails with NotFound.
func (r *TimesheetRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.Delete(id); err != nil {
		return err
	}

	logging.LogOperation(ctx, "delete", logging.KeyTimesheetID, id)
	return nil
}

// Query returns the page of records matching f, ordered by fecha then id,
// with the total match count. Filter dates may be in any accepted date form.
// No match yields an empty page, not an error.
func (r *TimesheetRepo) Query(ctx context.Context, f Filter) (*Result, error) {
	canonical, err := r.CanonicalFilter(f)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backend.Select(canonical)
}

// CanonicalFilter converts filter dates to YYYY-MM-DD and trims the legajo.
func (r *TimesheetRepo) CanonicalFilter(f Filter) (Filter, error) {
	var err error
	f.DateFrom = strings.TrimSpace(f.DateFrom)
	if f.DateFrom != "" {
		if f.DateFrom, err = r.normalizer.Date("date_from", f.DateFrom); err != nil {
			return f, err
		}
	}
	f.DateTo = strings.TrimSpace(f.DateTo)
	if f.DateTo != "" {
		if f.DateTo, err = r.normalizer.Date("date_to", f.DateTo); err != nil {
			return f, err
		}
	}
	f.Legajo = strings.TrimSpace(f.Legajo)
	return f, nil
}

// Close closes the backend.
func (r *TimesheetRepo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.Close()
}
