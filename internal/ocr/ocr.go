package ocr

import (
	"context"

	"github.com/reciptera/reciptera/internal/extraction"
)

// Document is the outcome of one recognition pass over a receipt image.
// Scores is non-nil only when the backend ran its own server-side parser
// and returned pre-scored fields.
type Document struct {
	Text   string
	Scores *extraction.ExternalScores
}

// Backend turns a receipt image into text. Implementations do I/O and can
// fail; callers degrade to manual entry on error.
type Backend interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (*Document, error)
}
