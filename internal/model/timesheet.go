package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Input is a loosely typed field map as received from a caller (decoded JSON
// tool arguments or CLI flags). It is converted to a Timesheet exactly once,
// by the validate package.
type Input map[string]any

// Timesheet is one person-day work-time record with contract and task attribution.
// Optional display fields are empty strings when absent.
type Timesheet struct {
	ID               int64     `json:"id"`
	NombrePersonal   string    `json:"nombre_personal"`
	LegajoPersonal   string    `json:"legajo_personal"`
	Fecha            string    `json:"fecha"`
	Cliente          string    `json:"cliente"`
	NombreCliente    string    `json:"nombre_cliente"`
	ContratoDivision string    `json:"contrato_division"`
	NombreDivision   string    `json:"nombre_division"`
	ContratoTipo     string    `json:"contrato_tipo"`
	NombreTipo       string    `json:"nombre_tipo"`
	ContratoNumero   string    `json:"contrato_numero"`
	NombreContrato   string    `json:"nombre_contrato"`
	Tarea            string    `json:"tarea"`
	NombreTarea      string    `json:"nombre_tarea"`
	TiempoMinutos    int       `json:"tiempo_minutos"`
	Observaciones    string    `json:"observaciones"`
	Categoria        string    `json:"categoria"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SetKey sets the record id from a database key.
func (t *Timesheet) SetKey(key string) {
	if id, err := ParseTimesheetKey(key); err == nil {
		t.ID = id
	}
}

// GetKey returns the database key for this record.
func (t *Timesheet) GetKey() string {
	return TimesheetKey(t.ID)
}

// TimesheetKey builds the database key for id. Ids are zero-padded so that
// lexicographic key order equals numeric id order.
func TimesheetKey(id int64) string {
	return fmt.Sprintf("%s:%020d", PrefixTimesheet, id)
}

// ParseTimesheetKey extracts the id from a key produced by TimesheetKey.
func ParseTimesheetKey(key string) (int64, error) {
	raw, ok := strings.CutPrefix(key, PrefixTimesheet+":")
	if !ok {
		return 0, fmt.Errorf("not a timesheet key: %q", key)
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Text returns the value of a free-text field.
func (t *Timesheet) Text(field string) (string, bool) {
	p := t.textField(field)
	if p == nil {
		return "", false
	}
	return *p, true
}

// SetText sets a free-text field. It reports false for unknown field names.
func (t *Timesheet) SetText(field, value string) bool {
	p := t.textField(field)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (t *Timesheet) textField(field string) *string {
	switch field {
	case FieldNombrePersonal:
		return &t.NombrePersonal
	case FieldLegajoPersonal:
		return &t.LegajoPersonal
	case FieldCliente:
		return &t.Cliente
	case FieldNombreCliente:
		return &t.NombreCliente
	case FieldContratoDivision:
		return &t.ContratoDivision
	case FieldNombreDivision:
		return &t.NombreDivision
	case FieldContratoTipo:
		return &t.ContratoTipo
	case FieldNombreTipo:
		return &t.NombreTipo
	case FieldContratoNumero:
		return &t.ContratoNumero
	case FieldNombreContrato:
		return &t.NombreContrato
	case FieldTarea:
		return &t.Tarea
	case FieldNombreTarea:
		return &t.NombreTarea
	case FieldObservaciones:
		return &t.Observaciones
	case FieldCategoria:
		return &t.Categoria
	}
	return nil
}

// Clone returns a copy of the record.
func (t *Timesheet) Clone() *Timesheet {
	c := *t
	return &c
}

// Contract returns the client/division/type/number quadruple identifying a contract.
func (t *Timesheet) Contract() string {
	return strings.Join([]string{t.Cliente, t.ContratoDivision, t.ContratoTipo, t.ContratoNumero}, "/")
}
