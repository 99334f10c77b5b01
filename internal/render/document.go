// Package render turns a form's state into a printable document and writes
// it as xlsx or csv.
package render

import (
	"time"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/port"
)

// Formats accepted by ForFormat.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ForFormat returns the renderer for a format name.
func ForFormat(format string) (port.DocumentRenderer, error) {
	switch format {
	case "", FormatXLSX:
		return NewXLSXRenderer(), nil
	case FormatCSV:
		return NewCSVRenderer(), nil
	default:
		return nil, domain.ErrUnsupportedFileType
	}
}

// Build formats a record for display. Amounts in totals carry two decimals.
func Build(schema *form.Schema, rec *domain.Record, totals *domain.Totals, now time.Time) *domain.Document {
	doc := &domain.Document{Title: schema.Title, GeneratedAt: now}

	for _, f := range schema.Fields {
		if f.Name == schema.AvatarField {
			continue
		}
		doc.Header = append(doc.Header, domain.LabelValue{Label: f.Label, Value: rec.Get(f.Name)})
	}

	if schema.Tabular() {
		doc.Columns = append(doc.Columns, "Sr. No")
		for _, f := range schema.RowFields {
			doc.Columns = append(doc.Columns, f.Label)
		}
		doc.Columns = append(doc.Columns, "Bill")
		for _, row := range rec.Table {
			line := make([]string, 0, len(doc.Columns))
			line = append(line, row.SrNo)
			for _, f := range schema.RowFields {
				line = append(line, row.Get(f.Name))
			}
			bill := ""
			if row.BillFile != nil {
				bill = row.BillFile.Name
			}
			doc.Rows = append(doc.Rows, append(line, bill))
		}
	}

	for _, cf := range rec.CustomFields {
		doc.CustomFields = append(doc.CustomFields, domain.LabelValue{Label: cf.Label, Value: cf.Value})
	}

	if totals != nil {
		doc.Totals = append(doc.Totals, domain.LabelValue{Label: "Total", Value: totals.Sum.StringFixed(2)})
		if schema.RateField != "" {
			doc.Totals = append(doc.Totals,
				domain.LabelValue{Label: "Tax (" + totals.TaxPercent.String() + "%)", Value: totals.Tax.StringFixed(2)},
				domain.LabelValue{Label: "Grand Total", Value: totals.GrandTotal.StringFixed(2)},
			)
		}
		if totals.Advance != nil {
			doc.Totals = append(doc.Totals,
				domain.LabelValue{Label: "Advance", Value: totals.Advance.StringFixed(2)},
				domain.LabelValue{Label: "Remaining", Value: totals.Remaining.StringFixed(2)},
				domain.LabelValue{Label: "Excess", Value: totals.Excess.StringFixed(2)},
			)
		}
	}
	return doc
}
