package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	p := NewPipeline()

	_, err := p.Process(context.Background(), nil)
	if err == nil {
		t.Error("expected error for nil document")
	}
}

func TestPipeline_Process_MultipleProcessors(t *testing.T) {
	firstChunks := []domain.Chunk{
		{ID: "chunk-1", Content: "first"},
	}
	secondChunks := []domain.Chunk{
		{ID: "chunk-1", Content: "modified"},
		{ID: "chunk-2", Content: "added"},
	}

	p := NewPipeline(
		&mockProcessor{name: "first", chunks: firstChunks},
		&mockProcessor{name: "second", chunks: secondChunks},
	)

	doc := &domain.Document{
		ID:      "doc-1",
		Content: "1. Plaintiff alleges jurisdiction.",
	}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	wantErr := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "broken", err: wantErr})

	doc := &domain.Document{ID: "doc-1", Content: "content"}

	_, err := p.Process(context.Background(), doc)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped processor error, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected error to name the processor, got %q", err.Error())
	}
}

func TestDefaultPipeline(t *testing.T) {
	p := DefaultPipeline()
	if p.Len() != 2 {
		t.Fatalf("expected 2 processors, got %d", p.Len())
	}

	doc := &domain.Document{
		ID:      "doc-1",
		Content: "CAPTION\r\n\r\n\r\n\r\n1. First   allegation.\n2. Second allegation.",
	}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks from default pipeline")
	}
	if strings.Contains(doc.Content, "\r") {
		t.Error("expected cleaner to strip carriage returns")
	}
}
