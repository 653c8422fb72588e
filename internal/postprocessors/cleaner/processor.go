// Package cleaner provides a text cleanup processor that runs before
// chunking.
package cleaner

import (
	"context"
	"regexp"
	"strings"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

var (
	// Runs of spaces and tabs collapse to one space.
	horizontalWS = regexp.MustCompile(`[ \t]+`)

	// Three or more newlines collapse to a paragraph break.
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// Processor normalises document content in place: carriage returns,
// repeated whitespace and control characters left over from format
// extraction. It implements the PostProcessor interface.
type Processor struct{}

// New creates a new cleaner processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process rewrites doc.Content and passes chunks through unchanged.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return chunks, nil
	}

	content := strings.ReplaceAll(doc.Content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = stripControl(content)
	content = horizontalWS.ReplaceAllString(content, " ")
	content = excessNewlines.ReplaceAllString(content, "\n\n")

	doc.Content = strings.TrimSpace(content)
	return chunks, nil
}

// stripControl removes control characters except newline and tab.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
