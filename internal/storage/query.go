package storage

import (
	"sort"

	"github.com/manav03panchal/pfsheet/internal/model"
)

// Filter selects timesheets. Dates are canonical YYYY-MM-DD and inclusive;
// empty fields do not filter.
type Filter struct {
	DateFrom string
	DateTo   string
	Legajo   string
	// Limit caps the page size; <= 0 means no limit.
	Limit int
	// Offset skips that many matches; negative counts as zero.
	Offset int
}

// Result is one page of matches plus the total number of matches.
type Result struct {
	Rows  []*model.Timesheet `json:"rows"`
	Count int                `json:"count"`
}

// Matches reports whether ts passes the filter, ignoring paging.
func (f Filter) Matches(ts *model.Timesheet) bool {
	if f.Legajo != "" && ts.LegajoPersonal != f.Legajo {
		return false
	}
	// Canonical dates compare correctly as strings
	if f.DateFrom != "" && ts.Fecha < f.DateFrom {
		return false
	}
	if f.DateTo != "" && ts.Fecha > f.DateTo {
		return false
	}
	return true
}

// Page orders matches by fecha then id and cuts out the requested page.
func (f Filter) Page(matches []*model.Timesheet) *Result {
	SortTimesheets(matches)

	offset := max(f.Offset, 0)
	if offset > len(matches) {
		offset = len(matches)
	}
	end := len(matches)
	if f.Limit > 0 && offset+f.Limit < end {
		end = offset + f.Limit
	}

	rows := matches[offset:end]
	if rows == nil {
		rows = []*model.Timesheet{}
	}
	return &Result{Rows: rows, Count: len(matches)}
}

// SortTimesheets orders records by fecha ascending, ties by id ascending.
func SortTimesheets(rows []*model.Timesheet) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Fecha != rows[j].Fecha {
			return rows[i].Fecha < rows[j].Fecha
		}
		return rows[i].ID < rows[j].ID
	})
}
