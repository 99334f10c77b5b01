package domain

import "time"

// LabelValue is one labelled line of a rendered document.
type LabelValue struct {
	Label string
	Value string
}

// Document is the render-ready view of a form: the values are already
// formatted for display.
type Document struct {
	Title        string
	GeneratedAt  time.Time
	Header       []LabelValue
	Columns      []string
	Rows         [][]string
	CustomFields []LabelValue
	Totals       []LabelValue
}

// RenderOptions controls page setup of a rendered document.
type RenderOptions struct {
	PageSize  string
	Landscape bool
	MarginMM  float64
	Scale     int
	FileName  string
}

// Page sizes accepted by the renderers.
const (
	PageSizeA4     = "A4"
	PageSizeLetter = "Letter"
)
