package storage

import (
	"fmt"

	"github.com/manav03panchal/pfsheet/internal/model"
)

// Backend is the persistence engine under a TimesheetRepo. Implementations
// need not serialize writers themselves; the repository does.
type Backend interface {
	// Insert stores a new record and sets ts.ID to the next unused id.
	Insert(ts *model.Timesheet) error
	// Replace overwrites an existing record. Fails with NotFound if absent.
	Replace(ts *model.Timesheet) error
	// Get returns the record with id. Fails with NotFound if absent.
	Get(id int64) (*model.Timesheet, error)
	// Delete removes the record with id. Fails with NotFound if absent.
	Delete(id int64) error
	// Select returns the page of records matching f and the total match count.
	Select(f Filter) (*Result, error)
	// Close releases the underlying database.
	Close() error
}

// Backend names accepted in configuration.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// OpenBackend opens the named backend at path. An empty path or MemoryDSN
// opens an in-memory database.
func OpenBackend(name, path string) (Backend, error) {
	inMemory := path == "" || path == MemoryDSN
	switch name {
	case "", BackendBadger:
		db, err := Open(Options{Path: path, InMemory: inMemory})
		if err != nil {
			return nil, err
		}
		return NewBadgerBackend(db), nil
	case BackendSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", name, BackendBadger, BackendSQLite)
}
