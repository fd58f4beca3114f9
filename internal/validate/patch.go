package validate

import (
	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/model"
)

// Patch is a validated partial update. Only fields present in the input are set.
type Patch struct {
	Text          map[string]string
	Fecha         *string
	TiempoMinutos *int
}

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	return len(p.Text) == 0 && p.Fecha == nil && p.TiempoMinutos == nil
}

// Fields returns the names of the fields the patch sets, in export order.
func (p *Patch) Fields() []string {
	var names []string
	for _, name := range model.ExportFields {
		switch name {
		case model.FieldFecha:
			if p.Fecha != nil {
				names = append(names, name)
			}
		case model.FieldTiempo:
			if p.TiempoMinutos != nil {
				names = append(names, name)
			}
		default:
			if _, ok := p.Text[name]; ok {
				names = append(names, name)
			}
		}
	}
	return names
}

// Apply merges the patch into ts. Fields not in the patch are left untouched.
func (p *Patch) Apply(ts *model.Timesheet) {
	for name, v := range p.Text {
		ts.SetText(name, v)
	}
	if p.Fecha != nil {
		ts.Fecha = *p.Fecha
	}
	if p.TiempoMinutos != nil {
		ts.TiempoMinutos = *p.TiempoMinutos
	}
}

// NormalizePatch validates the fields present in a partial update.
// A required field given as empty or null fails with MissingField; an
// optional field given as empty or null is cleared. "tiempo" wins over
// "tiempo_minutos" when both are present. Keys id, created_at and
// updated_at, and unknown keys, are ignored.
func (n *Normalizer) NormalizePatch(in model.Input) (*Patch, error) {
	p := &Patch{Text: map[string]string{}}

	if raw, ok := in[model.FieldTiempoMinutos]; ok && raw != nil {
		m, err := n.Minutes(model.FieldTiempoMinutos, raw)
		if err != nil {
			return nil, err
		}
		p.TiempoMinutos = &m
	}

	for _, name := range model.ExportFields {
		raw, ok := in[name]
		if !ok {
			continue
		}
		if isBlank(raw) {
			if model.IsRequired(name) {
				return nil, errors.MissingField(name)
			}
			p.Text[name] = ""
			continue
		}

		switch name {
		case model.FieldFecha:
			d, err := n.Date(name, raw)
			if err != nil {
				return nil, err
			}
			p.Fecha = &d
		case model.FieldTiempo:
			m, err := n.Duration(name, raw)
			if err != nil {
				return nil, err
			}
			p.TiempoMinutos = &m
		default:
			s, err := Text(name, raw)
			if err != nil {
				return nil, err
			}
			if s == "" && model.IsRequired(name) {
				return nil, errors.MissingField(name)
			}
			p.Text[name] = s
		}
	}

	return p, nil
}
