package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

const (
	tableKey        = "table"
	customFieldsKey = "customFields"
	srNoKey         = "srNo"
	billFileKey     = "billFile"
)

var errNullRecord = errors.New("record is null")

// Record is the state of one form: flat scalar fields, an optional expense
// table and user-defined custom fields. It encodes to a flat JSON object.
type Record struct {
	Fields       map[string]string
	Table        []Row
	CustomFields []CustomField
}

// Row is one line of an expense table.
type Row struct {
	SrNo     string
	Values   map[string]string
	BillFile *Attachment
}

// Attachment references a file bound to a row. URL is a preview handle that
// is only meaningful while the owning session is open.
type Attachment struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	IsImage   bool   `json:"isImage"`
	ObjectKey string `json:"objectKey,omitempty"`
}

// CustomField is an ad hoc label/value pair.
type CustomField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{Fields: make(map[string]string)}
}

// Get returns a scalar field, or "" when absent.
func (r *Record) Get(field string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[field]
}

// Set assigns a scalar field.
func (r *Record) Set(field, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[field] = value
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{Fields: make(map[string]string, len(r.Fields))}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	if r.Table != nil {
		out.Table = make([]Row, len(r.Table))
		for i := range r.Table {
			out.Table[i] = r.Table[i].Clone()
		}
	}
	if r.CustomFields != nil {
		out.CustomFields = append([]CustomField(nil), r.CustomFields...)
	}
	return out
}

// Portable returns a copy with every preview handle removed, suitable for
// persisting or comparing.
func (r *Record) Portable() *Record {
	out := r.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Table {
		if out.Table[i].BillFile != nil {
			out.Table[i].BillFile.URL = ""
		}
	}
	return out
}

// ObjectKeys lists the stored blobs referenced by the record's attachments.
func (r *Record) ObjectKeys() []string {
	if r == nil {
		return nil
	}
	var keys []string
	for _, row := range r.Table {
		if row.BillFile != nil && row.BillFile.ObjectKey != "" {
			keys = append(keys, row.BillFile.ObjectKey)
		}
	}
	return keys
}

// Equal reports whether two records have identical portable encodings.
func (r *Record) Equal(other *Record) bool {
	a, errA := json.Marshal(r.Portable())
	b, errB := json.Marshal(other.Portable())
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// MarshalJSON encodes the record as one flat object. Map keys are sorted by
// encoding/json, so equal records encode to equal bytes.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	if len(r.Table) > 0 {
		out[tableKey] = r.Table
	}
	if len(r.CustomFields) > 0 {
		out[customFieldsKey] = r.CustomFields
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a flat object. Values that are not strings, numbers
// or booleans are dropped rather than failing the whole record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errNullRecord
	}
	r.Fields = make(map[string]string, len(raw))
	r.Table = nil
	r.CustomFields = nil
	for k, v := range raw {
		switch k {
		case tableKey:
			var rows []Row
			if err := json.Unmarshal(v, &rows); err == nil && len(rows) > 0 {
				r.Table = rows
			}
		case customFieldsKey:
			var fields []CustomField
			if err := json.Unmarshal(v, &fields); err == nil && len(fields) > 0 {
				r.CustomFields = fields
			}
		default:
			if s, ok := scalarString(v); ok {
				r.Fields[k] = s
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the row.
func (row Row) Clone() Row {
	out := Row{SrNo: row.SrNo, Values: make(map[string]string, len(row.Values))}
	for k, v := range row.Values {
		out.Values[k] = v
	}
	if row.BillFile != nil {
		att := *row.BillFile
		out.BillFile = &att
	}
	return out
}

// Get returns a row field, or "" when absent.
func (row Row) Get(field string) string {
	return row.Values[field]
}

func (row Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(row.Values)+2)
	for k, v := range row.Values {
		out[k] = v
	}
	out[srNoKey] = row.SrNo
	out[billFileKey] = row.BillFile
	return json.Marshal(out)
}

func (row *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	row.Values = make(map[string]string, len(raw))
	row.SrNo = ""
	row.BillFile = nil
	for k, v := range raw {
		switch k {
		case srNoKey:
			row.SrNo, _ = scalarString(v)
		case billFileKey:
			var att Attachment
			if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				continue
			}
			if err := json.Unmarshal(v, &att); err == nil && att.Name != "" {
				row.BillFile = &att
			}
		default:
			if s, ok := scalarString(v); ok {
				row.Values[k] = s
			}
		}
	}
	return nil
}

func scalarString(v json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(v))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	case 't', 'f':
		return trimmed, trimmed == "true" || trimmed == "false"
	default:
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return "", false
		}
		return n.String(), true
	}
}
