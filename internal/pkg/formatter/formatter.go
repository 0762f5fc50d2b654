package formatter

import (
	"fmt"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

const fallbackTitle = "PROJECT BLUEPRINT"

// Formatter renders a completed blueprint into one document format. The
// session token is embedded for correlation with archive entries and
// delivered files.
type Formatter interface {
	Format(summary *entity.Summary, sessionID string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

func documentTitle(summary *entity.Summary) string {
	if summary != nil && summary.Title != "" {
		return summary.Title
	}
	return fallbackTitle
}
