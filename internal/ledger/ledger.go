// Package ledger applies row operations to a record's expense table while
// keeping serials contiguous and preview handles owned by exactly one row.
package ledger

import (
	"strconv"
	"strings"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
)

// Handles issues and releases attachment preview handles. Release must
// tolerate handles that are unknown or already released.
type Handles interface {
	Issue(objectKey string) string
	Release(handle string)
}

// Ledger mutates the table of records shaped by one schema.
type Ledger struct {
	schema  *form.Schema
	handles Handles
}

// New returns a ledger for the given schema.
func New(schema *form.Schema, handles Handles) *Ledger {
	return &Ledger{schema: schema, handles: handles}
}

// AddRow appends a blank row numbered after the current last row.
func (l *Ledger) AddRow(rec *domain.Record) error {
	if !l.schema.Tabular() {
		return domain.ErrNotTabular
	}
	row := l.schema.BlankRow()
	row.SrNo = strconv.Itoa(len(rec.Table) + 1)
	rec.Table = append(rec.Table, row)
	return nil
}

// RemoveRow deletes the row at index and renumbers the rest. The last
// remaining row is never removed.
func (l *Ledger) RemoveRow(rec *domain.Record, index int) error {
	if !l.schema.Tabular() {
		return domain.ErrNotTabular
	}
	if index < 0 || index >= len(rec.Table) {
		return domain.ErrOutOfRange
	}
	if len(rec.Table) == 1 {
		return domain.ErrCannotRemoveLastRow
	}

	removed := rec.Table[index]
	rec.Table = append(rec.Table[:index], rec.Table[index+1:]...)
	Renumber(rec.Table)
	l.release(removed.BillFile)
	return nil
}

// SetRowField replaces one column of one row. Values are stored verbatim.
func (l *Ledger) SetRowField(rec *domain.Record, index int, field, value string) error {
	if !l.schema.Tabular() {
		return domain.ErrNotTabular
	}
	if index < 0 || index >= len(rec.Table) {
		return domain.ErrOutOfRange
	}
	if !l.schema.HasRowField(field) {
		return domain.ErrUnknownField
	}
	if rec.Table[index].Values == nil {
		rec.Table[index].Values = make(map[string]string)
	}
	rec.Table[index].Values[field] = value
	return nil
}

// Attach binds file to the row at index. A nil file detaches. Any previous
// attachment's handle is released before the new one is issued.
func (l *Ledger) Attach(rec *domain.Record, index int, file *domain.FileRef) error {
	if !l.schema.Tabular() {
		return domain.ErrNotTabular
	}
	if index < 0 || index >= len(rec.Table) {
		return domain.ErrOutOfRange
	}

	row := &rec.Table[index]
	l.release(row.BillFile)
	row.BillFile = nil
	if file == nil {
		return nil
	}

	row.BillFile = &domain.Attachment{
		Name:      file.Name,
		Size:      file.Size,
		Type:      file.ContentType,
		IsImage:   IsImage(file.ContentType),
		ObjectKey: file.ObjectKey,
		URL:       l.handles.Issue(file.ObjectKey),
	}
	return nil
}

// Reissue gives every persisted attachment a fresh preview handle. Stored
// handles are never trusted; attachments without a stored blob are dropped.
func (l *Ledger) Reissue(rec *domain.Record) {
	for i := range rec.Table {
		att := rec.Table[i].BillFile
		if att == nil {
			continue
		}
		if att.ObjectKey == "" {
			rec.Table[i].BillFile = nil
			continue
		}
		att.URL = l.handles.Issue(att.ObjectKey)
	}
}

// ReleaseAll releases every handle held by the record's rows.
func (l *Ledger) ReleaseAll(rec *domain.Record) {
	if rec == nil {
		return
	}
	for i := range rec.Table {
		l.release(rec.Table[i].BillFile)
	}
}

func (l *Ledger) release(att *domain.Attachment) {
	if att == nil || att.URL == "" {
		return
	}
	l.handles.Release(att.URL)
}

// Renumber rewrites serials to 1..N in order.
func Renumber(rows []domain.Row) {
	for i := range rows {
		rows[i].SrNo = strconv.Itoa(i + 1)
	}
}

// IsImage reports whether a MIME type can be previewed as an image.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}
