package pdf

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxPages caps extraction for very large PDFs.
const maxPages = 200

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/pdf",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific normaliser
}

// Normalise converts a PDF document to a normalised document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	content := extractText(reader)

	doc := domain.Document{
		ID:        uuid.New().String(),
		MatterID:  raw.MatterID,
		URI:       raw.URI,
		Title:     extractTitle(reader, raw.URI),
		Content:   content,
		DocType:   domain.DocTypeUnknown,
		Authority: domain.AuthorityUnknown,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pdf"
	doc.Metadata["pages"] = reader.NumPage()

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// extractText pulls plain text from each page, joined with paragraph
// breaks. Pages that fail to extract are skipped.
func extractText(reader *pdf.Reader) string {
	pageCount := reader.NumPage()
	if pageCount > maxPages {
		pageCount = maxPages
	}

	var pages []string
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n")
}

// extractTitle reads the document info dictionary's Title, falling back
// to the filename.
func extractTitle(reader *pdf.Reader, uri string) string {
	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		title := info.Key("Title")
		if !title.IsNull() && title.Kind() == pdf.String {
			if t := strings.TrimSpace(title.Text()); t != "" {
				return t
			}
		}
	}

	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
