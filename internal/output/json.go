package output

import (
	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/parser"
)

// RowOutput is a timesheet as returned to callers: every stored field plus
// the HH:MM rendering of the duration.
type RowOutput struct {
	*model.Timesheet
	Tiempo string `json:"tiempo"`
}

// NewRowOutput creates a RowOutput. A nil record yields nil.
func NewRowOutput(ts *model.Timesheet) *RowOutput {
	if ts == nil {
		return nil
	}
	return &RowOutput{Timesheet: ts, Tiempo: parser.FormatDuration(ts.TiempoMinutos)}
}

// NewRowOutputs converts a page of records. The result is never nil.
func NewRowOutputs(rows []*model.Timesheet) []*RowOutput {
	out := make([]*RowOutput, len(rows))
	for i, ts := range rows {
		out[i] = NewRowOutput(ts)
	}
	return out
}

// CreatedResponse is the create command output.
type CreatedResponse struct {
	Created bool       `json:"created"`
	Row     *RowOutput `json:"row"`
}

// FoundResponse is the get command output.
type FoundResponse struct {
	Found bool       `json:"found"`
	Row   *RowOutput `json:"row"`
}

// UpdatedResponse is the update command output.
type UpdatedResponse struct {
	Updated bool       `json:"updated"`
	Row     *RowOutput `json:"row"`
}

// DeletedResponse is the delete command output.
type DeletedResponse struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

// ListResponse is one page of query results with the total match count.
type ListResponse struct {
	Rows  []*RowOutput `json:"rows"`
	Count int          `json:"count"`
}

// FieldsResponse describes the accepted input fields.
type FieldsResponse struct {
	Required        []string `json:"required"`
	Optional        []string `json:"optional"`
	ExportOrder     []string `json:"export_order"`
	DateFormats     []string `json:"date_formats"`
	DurationFormats []string `json:"duration_formats"`
}

// NewFieldsResponse builds the field reference.
func NewFieldsResponse() *FieldsResponse {
	return &FieldsResponse{
		Required:        model.RequiredFields,
		Optional:        model.OptionalFields,
		ExportOrder:     model.ExportFields,
		DateFormats:     parser.DateExamples,
		DurationFormats: parser.DurationExamples,
	}
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	Field      string `json:"field,omitempty"`
	Value      string `json:"value,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewErrorResponse describes err, including its domain kind and offending
// field and value when err is a UserError.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{
		Status:     "error",
		Error:      err.Error(),
		Kind:       errors.KindName(err),
		Suggestion: errors.GetSuggestion(err),
	}
	if ue, ok := errors.AsUserError(err); ok {
		resp.Field = ue.Field
		resp.Value = ue.Value
	}
	return resp
}
