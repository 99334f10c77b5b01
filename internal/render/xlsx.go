package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"expensedesk/internal/domain"
	"expensedesk/internal/port"
)

const sheetName = "Form"

// Excel paper size codes.
const (
	paperLetter = 1
	paperA4     = 9
)

const mmPerInch = 25.4

type xlsxRenderer struct{}

// NewXLSXRenderer creates a renderer that lays the document out on one
// printable worksheet.
func NewXLSXRenderer() port.DocumentRenderer {
	return xlsxRenderer{}
}

func (xlsxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (xlsxRenderer) Extension() string { return FormatXLSX }

func (xlsxRenderer) Render(ctx context.Context, doc *domain.Document, opts domain.RenderOptions, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("render.xlsx: %w", err)
	}
	if err := applyPageSetup(f, opts); err != nil {
		return fmt.Errorf("render.xlsx page setup: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("render.xlsx style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("render.xlsx style: %w", err)
	}

	sw := &sheetWriter{f: f, row: 1}
	sw.line(title, doc.Title)
	sw.line(0, "Generated At", doc.GeneratedAt.Format(time.RFC3339))
	sw.row++
	sw.pairs(bold, doc.Header)

	if len(doc.Columns) > 0 {
		sw.row++
		sw.line(bold, doc.Columns...)
		for _, r := range doc.Rows {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sw.line(0, r...)
		}
	}
	if len(doc.CustomFields) > 0 {
		sw.row++
		sw.pairs(bold, doc.CustomFields)
	}
	if len(doc.Totals) > 0 {
		sw.row++
		sw.pairs(bold, doc.Totals)
	}
	if sw.err != nil {
		return fmt.Errorf("render.xlsx: %w", sw.err)
	}

	width := len(doc.Columns)
	if width < 2 {
		width = 2
	}
	last, _ := excelize.ColumnNumberToName(width)
	if err := f.SetColWidth(sheetName, "A", last, 22); err != nil {
		return fmt.Errorf("render.xlsx: %w", err)
	}

	return f.Write(w)
}

func applyPageSetup(f *excelize.File, opts domain.RenderOptions) error {
	size := paperA4
	if opts.PageSize == domain.PageSizeLetter {
		size = paperLetter
	}
	orientation := "portrait"
	if opts.Landscape {
		orientation = "landscape"
	}
	layout := &excelize.PageLayoutOptions{Size: &size, Orientation: &orientation}
	if opts.Scale > 0 {
		adjust := uint(opts.Scale * 100)
		if adjust > 400 {
			adjust = 400
		}
		layout.AdjustTo = &adjust
	} else {
		fit := 1
		layout.FitToWidth = &fit
	}
	if err := f.SetPageLayout(sheetName, layout); err != nil {
		return err
	}

	if opts.MarginMM <= 0 {
		return nil
	}
	m := opts.MarginMM / mmPerInch
	return f.SetPageMargins(sheetName, &excelize.PageLayoutMarginsOptions{
		Top: &m, Bottom: &m, Left: &m, Right: &m,
	})
}

// sheetWriter writes consecutive rows and keeps the first error.
type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func (s *sheetWriter) line(style int, values ...string) {
	if s.err != nil {
		return
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			s.err = err
			return
		}
		if err := s.f.SetCellStr(sheetName, cell, v); err != nil {
			s.err = err
			return
		}
		if style != 0 && (i == 0 || len(values) > 2) {
			if err := s.f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				s.err = err
				return
			}
		}
	}
	s.row++
}

func (s *sheetWriter) pairs(labelStyle int, pairs []domain.LabelValue) {
	for _, p := range pairs {
		s.line(labelStyle, p.Label, p.Value)
	}
}
