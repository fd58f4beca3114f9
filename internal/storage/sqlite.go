package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	pferrors "github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
)

//go:embed schema.sql
var schema string

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// columns lists the stored columns after id, in insert order.
var columns = []string{
	model.FieldNombrePersonal,
	model.FieldLegajoPersonal,
	model.FieldFecha,
	model.FieldCliente,
	model.FieldNombreCliente,
	model.FieldContratoDivision,
	model.FieldNombreDivision,
	model.FieldContratoTipo,
	model.FieldNombreTipo,
	model.FieldContratoNumero,
	model.FieldNombreContrato,
	model.FieldTarea,
	model.FieldNombreTarea,
	model.FieldTiempoMinutos,
	model.FieldObservaciones,
	model.FieldCategoria,
	model.FieldCreatedAt,
	model.FieldUpdatedAt,
}

// SQLite stores timesheets in a single table. AUTOINCREMENT keeps ids from
// being reused after deletion.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates a SQLite database file. An empty path or
// MemoryDSN opens an in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	inMemory := path == "" || path == MemoryDSN
	if inMemory {
		dsn = MemoryDSN
	} else {
		if err := EnsureDirectory(filepath.Dir(path)); err != nil {
			return nil, err
		}
		dsn = "file:" + path + "?_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if inMemory {
		// Every new connection to :memory: is a separate empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func values(ts *model.Timesheet) []any {
	return []any{
		ts.NombrePersonal, ts.LegajoPersonal, ts.Fecha, ts.Cliente, ts.NombreCliente,
		ts.ContratoDivision, ts.NombreDivision, ts.ContratoTipo, ts.NombreTipo,
		ts.ContratoNumero, ts.NombreContrato, ts.Tarea, ts.NombreTarea, ts.TiempoMinutos,
		ts.Observaciones, ts.Categoria, ts.CreatedAt, ts.UpdatedAt,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTimesheet(row scanner) (*model.Timesheet, error) {
	ts := &model.Timesheet{}
	err := row.Scan(
		&ts.ID,
		&ts.NombrePersonal, &ts.LegajoPersonal, &ts.Fecha, &ts.Cliente, &ts.NombreCliente,
		&ts.ContratoDivision, &ts.NombreDivision, &ts.ContratoTipo, &ts.NombreTipo,
		&ts.ContratoNumero, &ts.NombreContrato, &ts.Tarea, &ts.NombreTarea, &ts.TiempoMinutos,
		&ts.Observaciones, &ts.Categoria, &ts.CreatedAt, &ts.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ts, nil
}

var selectColumns = "id, " + strings.Join(columns, ", ")

// Insert stores ts and sets its id.
func (s *SQLite) Insert(ts *model.Timesheet) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	res, err := s.db.Exec(
		"INSERT INTO timesheets ("+strings.Join(columns, ", ")+") VALUES ("+placeholders+")",
		values(ts)...,
	)
	if err != nil {
		return fmt.Errorf("insert timesheet: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert timesheet: %w", err)
	}
	ts.ID = id
	return nil
}

// Replace overwrites every column of an existing record.
func (s *SQLite) Replace(ts *model.Timesheet) error {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = ?"
	}
	args := append(values(ts), ts.ID)
	res, err := s.db.Exec("UPDATE timesheets SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update timesheet: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return pferrors.NotFound(ts.ID)
	}
	return nil
}

// Get returns the record with id.
func (s *SQLite) Get(id int64) (*model.Timesheet, error) {
	ts, err := scanTimesheet(s.db.QueryRow("SELECT "+selectColumns+" FROM timesheets WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pferrors.NotFound(id)
		}
		return nil, fmt.Errorf("get timesheet: %w", err)
	}
	return ts, nil
}

// Delete removes the record with id.
func (s *SQLite) Delete(id int64) error {
	res, err := s.db.Exec("DELETE FROM timesheets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete timesheet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete timesheet: %w", err)
	}
	if n == 0 {
		return pferrors.NotFound(id)
	}
	return nil
}

// Select runs a count and a paged query with the same WHERE clause.
func (s *SQLite) Select(f Filter) (*Result, error) {
	var where []string
	var args []any
	if f.Legajo != "" {
		where = append(where, "legajo_personal = ?")
		args = append(args, f.Legajo)
	}
	if f.DateFrom != "" {
		where = append(where, "fecha >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, "fecha <= ?")
		args = append(args, f.DateTo)
	}

	base := " FROM timesheets"
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	result := &Result{Rows: []*model.Timesheet{}}
	if err := s.db.QueryRow("SELECT COUNT(*)"+base, args...).Scan(&result.Count); err != nil {
		return nil, fmt.Errorf("count timesheets: %w", err)
	}

	// SQLite treats LIMIT -1 as no limit
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	pageArgs := append(append([]any{}, args...), limit, max(f.Offset, 0))

	rows, err := s.db.Query("SELECT "+selectColumns+base+" ORDER BY fecha ASC, id ASC LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ts, err := scanTimesheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timesheet: %w", err)
		}
		result.Rows = append(result.Rows, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}

	return result, nil
}
