package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/normalisers/plaintext"
)

// stubNormaliser claims a MIME type with a given priority and marks the
// result so tests can see which normaliser ran.
type stubNormaliser struct {
	mimes    []string
	priority int
	marker   string
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.mimes }
func (s *stubNormaliser) Priority() int                { return s.priority }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{
		Document: domain.Document{
			MatterID: raw.MatterID,
			URI:      raw.URI,
			Content:  s.marker,
		},
	}, nil
}

func TestRegistry_Normalise_DispatchesByMIME(t *testing.T) {
	registry := NewRegistry()
	registry.Register(plaintext.New())

	raw := &domain.RawDocument{
		MatterID: "matter-1",
		URI:      "/intake/letter.txt",
		MIMEType: "text/plain",
		Content:  []byte("content"),
	}

	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "content", result.Document.Content)
}

func TestRegistry_Normalise_HighestPriorityWins(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimes: []string{"text/plain"}, priority: 5, marker: "fallback"})
	registry.Register(&stubNormaliser{mimes: []string{"text/plain"}, priority: 50, marker: "specific"})

	raw := &domain.RawDocument{MatterID: "m1", URI: "/a.txt", MIMEType: "text/plain"}

	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "specific", result.Document.Content)
}

func TestRegistry_Normalise_StripsMIMEParameters(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimes: []string{"text/plain"}, priority: 5, marker: "ok"})

	raw := &domain.RawDocument{MatterID: "m1", URI: "/a.txt", MIMEType: "text/plain; charset=utf-8"}

	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Document.Content)
}

func TestRegistry_Normalise_UnsupportedType(t *testing.T) {
	registry := NewRegistry()
	registry.Register(plaintext.New())

	raw := &domain.RawDocument{MatterID: "m1", URI: "/a.bin", MIMEType: "application/octet-stream"}

	result, err := registry.Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Nil(t, result)
}

func TestRegistry_Normalise_NilDocument(t *testing.T) {
	registry := NewRegistry()

	result, err := registry.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimes: []string{"text/plain", "text/csv"}, priority: 5})
	registry.Register(&stubNormaliser{mimes: []string{"application/pdf"}, priority: 50})

	types := registry.SupportedMIMETypes()
	assert.Equal(t, []string{"application/pdf", "text/csv", "text/plain"}, types)
}
