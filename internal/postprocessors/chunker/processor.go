// Package chunker provides a paragraph-aware text chunking processor.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters,
// used only when an oversized paragraph must be split mid-text.
const DefaultChunkOverlap = 200

// numberedParagraph matches the start of a numbered pleading paragraph,
// e.g. "12. Defendant breached..." or "12) Defendant breached...".
var numberedParagraph = regexp.MustCompile(`^\s*\d{1,4}[.)]\s`)

// Processor splits document content into chunks along paragraph
// boundaries. Pleading-style numbered paragraphs are never merged with
// the preceding paragraph, so a chunk's numbering stays coherent.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap used when splitting oversized paragraphs.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	paragraphs := splitParagraphs(doc.Content)

	var chunks []domain.Chunk
	position := 0

	emit := func(content string) {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    content,
			Position:   position,
			Metadata:   make(map[string]any),
		})
		position++
	}

	var current strings.Builder
	for _, para := range paragraphs {
		if len(para) > p.chunkSize {
			// Flush whatever is pending, then hard-split the oversized
			// paragraph with overlap.
			if current.Len() > 0 {
				emit(current.String())
				current.Reset()
			}
			for _, piece := range p.hardSplit(para) {
				emit(piece)
			}
			continue
		}

		if current.Len() > 0 && current.Len()+len(para)+2 > p.chunkSize {
			emit(current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	if current.Len() > 0 {
		emit(current.String())
	}

	return chunks, nil
}

// hardSplit cuts a paragraph that exceeds the chunk size into
// fixed-size pieces with overlap.
func (p *Processor) hardSplit(text string) []string {
	var pieces []string
	start := 0
	for start < len(text) {
		end := start + p.chunkSize
		if end > len(text) {
			end = len(text)
		}
		pieces = append(pieces, text[start:end])

		step := p.chunkSize - p.overlap
		if step <= 0 {
			break
		}
		start += step
	}
	return pieces
}

// splitParagraphs breaks text on blank lines and on numbered pleading
// paragraph starts, trimming whitespace and dropping empty results.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		joined := strings.TrimSpace(strings.Join(current, "\n"))
		if joined != "" {
			paragraphs = append(paragraphs, joined)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if numberedParagraph.MatchString(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}
