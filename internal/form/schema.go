// Package form describes the fixed shape of every form kind: its storage
// keys, scalar and row fields, prefill identity mapping and validation rules.
package form

import (
	"sort"
	"strconv"

	"expensedesk/internal/domain"
)

// Identity maps the prefill identity fields onto a target form. Either
// FullName or the First/Last pair is set.
type Identity struct {
	FullName   string
	First      string
	Last       string
	Department string
}

// Rule binds a validator tag to a field. Reason is reported when it fails.
type Rule struct {
	Field  string
	Tag    string
	Reason string
}

// Schema is the static description of a form kind.
type Schema struct {
	Kind          domain.FormKind
	Title         string
	CanonicalKey  string
	DraftKey      string
	Fields        []Field
	RowFields     []Field
	RateField     string
	AdvanceField  string
	AvatarField   string
	Identity      *Identity
	PrefillFrom   []string
	Rules         []Rule
	SubmitPath    string
	FileName      string
	AdminCategory string
	NextAfterSave string
}

// Field is a labelled scalar or row column.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Tabular reports whether the form carries an expense table.
func (s *Schema) Tabular() bool {
	return len(s.RowFields) > 0
}

// HasField reports whether name is a scalar field of the form.
func (s *Schema) HasField(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// HasRowField reports whether name is a column of the form's table.
func (s *Schema) HasRowField(name string) bool {
	for _, f := range s.RowFields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// BlankRow returns a row with every column empty and no serial.
func (s *Schema) BlankRow() domain.Row {
	row := domain.Row{Values: make(map[string]string, len(s.RowFields))}
	for _, f := range s.RowFields {
		row.Values[f.Name] = ""
	}
	return row
}

// Default returns the empty state: every scalar empty, one blank row for
// tabular forms, no custom fields.
func (s *Schema) Default() *domain.Record {
	rec := domain.NewRecord()
	for _, f := range s.Fields {
		rec.Fields[f.Name] = ""
	}
	if s.Tabular() {
		row := s.BlankRow()
		row.SrNo = "1"
		rec.Table = []domain.Row{row}
	}
	return rec
}

// Project shapes a loaded record into the form's editable shape. Unknown
// scalars are dropped, missing ones become empty, and tabular forms always
// get at least one row with contiguous serials.
func (s *Schema) Project(rec *domain.Record) *domain.Record {
	if rec == nil {
		return s.Default()
	}
	out := domain.NewRecord()
	for _, f := range s.Fields {
		out.Fields[f.Name] = rec.Get(f.Name)
	}
	if s.Tabular() {
		for _, src := range rec.Table {
			row := s.BlankRow()
			for _, f := range s.RowFields {
				row.Values[f.Name] = src.Get(f.Name)
			}
			if src.BillFile != nil {
				att := *src.BillFile
				row.BillFile = &att
			}
			out.Table = append(out.Table, row)
		}
		if len(out.Table) == 0 {
			out.Table = []domain.Row{s.BlankRow()}
		}
		for i := range out.Table {
			out.Table[i].SrNo = strconv.Itoa(i + 1)
		}
	}
	if len(rec.CustomFields) > 0 {
		out.CustomFields = append([]domain.CustomField(nil), rec.CustomFields...)
	}
	return out
}

// Registry holds the schemas of every supported form kind.
type Registry struct {
	schemas map[domain.FormKind]*Schema
}

// NewRegistry returns a registry of the built-in form kinds.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[domain.FormKind]*Schema)}
	for _, s := range builtins() {
		r.schemas[s.Kind] = s
	}
	return r
}

// Get returns the schema for a kind.
func (r *Registry) Get(kind domain.FormKind) (*Schema, error) {
	s, ok := r.schemas[kind]
	if !ok {
		return nil, domain.ErrUnknownFormKind
	}
	return s, nil
}

// All returns every schema ordered by kind.
func (r *Registry) All() []*Schema {
	out := make([]*Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
