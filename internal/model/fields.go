package model

// Field names as they appear in input maps, JSON output and the SQL schema.
const (
	FieldID               = "id"
	FieldNombrePersonal   = "nombre_personal"
	FieldLegajoPersonal   = "legajo_personal"
	FieldFecha            = "fecha"
	FieldCliente          = "cliente"
	FieldNombreCliente    = "nombre_cliente"
	FieldContratoDivision = "contrato_division"
	FieldNombreDivision   = "nombre_division"
	FieldContratoTipo     = "contrato_tipo"
	FieldNombreTipo       = "nombre_tipo"
	FieldContratoNumero   = "contrato_numero"
	FieldNombreContrato   = "nombre_contrato"
	FieldTarea            = "tarea"
	FieldNombreTarea      = "nombre_tarea"
	FieldTiempo           = "tiempo"
	FieldTiempoMinutos    = "tiempo_minutos"
	FieldObservaciones    = "observaciones"
	FieldCategoria        = "categoria"
	FieldCreatedAt        = "created_at"
	FieldUpdatedAt        = "updated_at"
)

// RequiredFields lists the mandatory input keys in the order they are checked.
// The first missing key in this order is the one reported.
var RequiredFields = []string{
	FieldLegajoPersonal,
	FieldFecha,
	FieldCliente,
	FieldContratoDivision,
	FieldContratoTipo,
	FieldContratoNumero,
	FieldTarea,
	FieldTiempo,
}

// OptionalFields lists the display-only input keys.
var OptionalFields = []string{
	FieldNombrePersonal,
	FieldNombreCliente,
	FieldNombreDivision,
	FieldNombreTipo,
	FieldNombreContrato,
	FieldNombreTarea,
	FieldObservaciones,
	FieldCategoria,
}

// TextFields lists every free-text field, required and optional, in export order.
var TextFields = []string{
	FieldLegajoPersonal,
	FieldNombrePersonal,
	FieldCliente,
	FieldNombreCliente,
	FieldContratoDivision,
	FieldNombreDivision,
	FieldContratoTipo,
	FieldNombreTipo,
	FieldContratoNumero,
	FieldNombreContrato,
	FieldTarea,
	FieldNombreTarea,
	FieldObservaciones,
	FieldCategoria,
}

// ExportFields is the fixed column order of a data row in the PF template.
var ExportFields = []string{
	FieldLegajoPersonal,
	FieldNombrePersonal,
	FieldFecha,
	FieldCliente,
	FieldNombreCliente,
	FieldContratoDivision,
	FieldNombreDivision,
	FieldContratoTipo,
	FieldNombreTipo,
	FieldContratoNumero,
	FieldNombreContrato,
	FieldTarea,
	FieldNombreTarea,
	FieldTiempo,
	FieldObservaciones,
	FieldCategoria,
}

// IsRequired reports whether name is a mandatory input key.
func IsRequired(name string) bool {
	for _, f := range RequiredFields {
		if f == name {
			return true
		}
	}
	return false
}

// IsTextField reports whether name is a free-text field.
func IsTextField(name string) bool {
	for _, f := range TextFields {
		if f == name {
			return true
		}
	}
	return false
}
