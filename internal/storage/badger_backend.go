package storage

import (
	"errors"
	"strconv"

	badger "github.com/dgraph-io/badger/v4"

	pferrors "github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
)

// BadgerBackend stores each timesheet as a JSON value under
// "timesheet:<zero-padded id>" and keeps the id counter under
// model.KeySequence, updated in the same transaction as the insert.
type BadgerBackend struct {
	db *DB
}

// NewBadgerBackend creates a backend over an open Badger database.
func NewBadgerBackend(db *DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

// Insert stores ts under a freshly allocated id.
func (b *BadgerBackend) Insert(ts *model.Timesheet) error {
	return b.db.db.Update(func(txn *badger.Txn) error {
		id, err := nextID(txn)
		if err != nil {
			return err
		}
		ts.ID = id
		return setTxn(txn, ts)
	})
}

// nextID increments and returns the persisted id counter. Ids are never
// handed out twice, even after the record holding one is deleted.
func nextID(txn *badger.Txn) (int64, error) {
	var last int64
	item, err := txn.Get([]byte(model.KeySequence))
	switch {
	case err == nil:
		err = item.Value(func(val []byte) error {
			n, perr := strconv.ParseInt(string(val), 10, 64)
			last = n
			return perr
		})
		if err != nil {
			return 0, err
		}
	case !errors.Is(err, badger.ErrKeyNotFound):
		return 0, err
	}

	next := last + 1
	if err := txn.Set([]byte(model.KeySequence), []byte(strconv.FormatInt(next, 10))); err != nil {
		return 0, err
	}
	return next, nil
}

// Replace overwrites an existing record.
func (b *BadgerBackend) Replace(ts *model.Timesheet) error {
	return b.db.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(ts.GetKey())); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return pferrors.NotFound(ts.ID)
			}
			return err
		}
		return setTxn(txn, ts)
	})
}

// Get returns the record with id.
func (b *BadgerBackend) Get(id int64) (*model.Timesheet, error) {
	ts := &model.Timesheet{}
	if err := b.db.Get(model.TimesheetKey(id), ts); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, pferrors.NotFound(id)
		}
		return nil, err
	}
	return ts, nil
}

// Delete removes the record with id.
func (b *BadgerBackend) Delete(id int64) error {
	key := []byte(model.TimesheetKey(id))
	return b.db.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return pferrors.NotFound(id)
			}
			return err
		}
		return txn.Delete(key)
	})
}

// Select scans all records in id order, keeps those matching f, then sorts
// and pages them.
func (b *BadgerBackend) Select(f Filter) (*Result, error) {
	rows, err := GetFilteredByPrefix(b.db, model.PrefixTimesheet+":", func() *model.Timesheet {
		return &model.Timesheet{}
	}, f.Matches, 0)
	if err != nil {
		return nil, err
	}
	return f.Page(rows), nil
}

// Close closes the database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
