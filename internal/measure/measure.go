// Package measure extracts layout blocks from a rendered résumé.
package measure

import (
	"context"
	"errors"

	"github.com/alnah/go-resumepdf/internal/layout"
)

// ErrEmptyDocument means the résumé container holds no header, section
// title or item to paginate.
var ErrEmptyDocument = errors.New("no measurable content")

// Measurer turns a complete HTML document into document-ordered blocks
// with their rendered heights.
type Measurer interface {
	Measure(ctx context.Context, doc string) ([]layout.Block, error)
}
