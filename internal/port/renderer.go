package port

import (
	"context"
	"io"

	"expensedesk/internal/domain"
)

// DocumentRenderer writes a printable document for a form.
type DocumentRenderer interface {
	Render(ctx context.Context, doc *domain.Document, opts domain.RenderOptions, w io.Writer) error
	ContentType() string
	Extension() string
}
