package render

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"expensedesk/internal/domain"
	"expensedesk/internal/port"
)

// BOM is the UTF-8 byte order mark Excel on Windows needs to detect encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

type csvRenderer struct{}

// NewCSVRenderer creates a renderer that writes the document as CSV
// sections: header fields, the table, custom fields and totals.
func NewCSVRenderer() port.DocumentRenderer {
	return csvRenderer{}
}

func (csvRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (csvRenderer) Extension() string { return FormatCSV }

func (csvRenderer) Render(_ context.Context, doc *domain.Document, _ domain.RenderOptions, w io.Writer) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	records := [][]string{
		{doc.Title},
		{"Generated At", doc.GeneratedAt.Format(time.RFC3339)},
	}
	records = appendPairs(records, doc.Header)
	if len(doc.Columns) > 0 {
		records = append(records, nil, doc.Columns)
		records = append(records, doc.Rows...)
	}
	if len(doc.CustomFields) > 0 {
		records = append(records, nil)
		records = appendPairs(records, doc.CustomFields)
	}
	if len(doc.Totals) > 0 {
		records = append(records, nil)
		records = appendPairs(records, doc.Totals)
	}

	for _, rec := range records {
		if rec == nil {
			rec = []string{""}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func appendPairs(records [][]string, pairs []domain.LabelValue) [][]string {
	for _, p := range pairs {
		records = append(records, []string{p.Label, p.Value})
	}
	return records
}
