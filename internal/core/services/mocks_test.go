package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
)

// --- Mock implementations shared across service tests ---

// mockEmbeddingService implements driven.EmbeddingService with a fixed
// vector or a per-text lookup.
type mockEmbeddingService struct {
	embedding []float32
	byText    map[string][]float32
	embedErr  error
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if v, ok := m.byText[text]; ok {
		return v
	}
	return m.embedding
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vector(text)
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.embedding) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

// mockLLMService implements driven.LLMService, replaying scripted
// responses and recording the prompts it saw.
type mockLLMService struct {
	mu        sync.Mutex
	responses []string
	generated []string
	chatted   [][]driven.ChatMessage
	err       error
}

func (m *mockLLMService) next() string {
	if len(m.responses) == 0 {
		return "mock response"
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.generated = append(m.generated, prompt)
	return m.next(), nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.chatted = append(m.chatted, messages)
	return m.next(), nil
}

func (m *mockLLMService) Summarise(_ context.Context, _ string, _ int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.next(), nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

var _ driven.LLMService = (*mockLLMService)(nil)

// mockRegistry implements driven.NormaliserRegistry, turning the raw
// bytes straight into document content.
type mockRegistry struct {
	err error
}

func (m *mockRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:       "doc-" + raw.URI,
			MatterID: raw.MatterID,
			URI:      raw.URI,
			Title:    raw.URI,
			Content:  string(raw.Content),
		},
	}, nil
}

func (m *mockRegistry) Register(_ driven.Normaliser) {}

func (m *mockRegistry) SupportedMIMETypes() []string { return []string{"text/plain"} }

var _ driven.NormaliserRegistry = (*mockRegistry)(nil)

// mockPipeline implements driven.PostProcessorPipeline, emitting one
// chunk per document.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Chunk{
		{ID: "chunk-" + doc.ID, DocumentID: doc.ID, Content: doc.Content, Position: 0},
	}, nil
}

var _ driven.PostProcessorPipeline = (*mockPipeline)(nil)

// mockClusterManager implements driving.ClusterManager, recording
// assignments and returning canned similarity results.
type mockClusterManager struct {
	mu         sync.Mutex
	assigned   []domain.Categorisation
	removed    []string
	hits       []driving.ClusterHit
	similarity float64
	simErr     error
	nearestErr error
	assignErr  error
}

func (m *mockClusterManager) Assign(_ context.Context, _ *domain.Document, cat domain.Categorisation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.assignErr != nil {
		return m.assignErr
	}
	m.assigned = append(m.assigned, cat)
	return nil
}

func (m *mockClusterManager) Remove(_ context.Context, _, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, documentID)
	return nil
}

func (m *mockClusterManager) Nearest(_ context.Context, _, _, _ string, _ int) ([]driving.ClusterHit, error) {
	if m.nearestErr != nil {
		return nil, m.nearestErr
	}
	return m.hits, nil
}

func (m *mockClusterManager) MaxSimilarity(_ context.Context, _, _, _ string) (float64, error) {
	if m.simErr != nil {
		return 0, m.simErr
	}
	return m.similarity, nil
}

func (m *mockClusterManager) Stats(_ context.Context, _, key string) (*domain.ClusterStats, error) {
	return &domain.ClusterStats{Key: key}, nil
}

func (m *mockClusterManager) List(_ context.Context, _ string) ([]domain.Cluster, error) {
	return nil, nil
}

func (m *mockClusterManager) assignments() []domain.Categorisation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Categorisation(nil), m.assigned...)
}

func (m *mockClusterManager) removals() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.removed...)
}

var _ driving.ClusterManager = (*mockClusterManager)(nil)

// mockConnector implements driven.Connector, replaying a fixed set of
// raw documents.
type mockConnector struct {
	matterID    string
	docs        []domain.RawDocument
	changes     []domain.RawDocumentChange
	validateErr error
	ingestErr   error
	caps        driven.ConnectorCapabilities
}

func (m *mockConnector) Type() string { return "mock" }

func (m *mockConnector) MatterID() string { return m.matterID }

func (m *mockConnector) Capabilities() driven.ConnectorCapabilities { return m.caps }

func (m *mockConnector) Validate(_ context.Context) error { return m.validateErr }

func (m *mockConnector) FullIngest(_ context.Context) (<-chan domain.RawDocument, <-chan error) {
	docsCh := make(chan domain.RawDocument, len(m.docs))
	errsCh := make(chan error, 1)
	if m.ingestErr != nil {
		// Leave docsCh open so the error is the only readable event.
		errsCh <- m.ingestErr
		return docsCh, errsCh
	}
	for _, doc := range m.docs {
		docsCh <- doc
	}
	close(docsCh)
	close(errsCh)
	return docsCh, errsCh
}

func (m *mockConnector) Watch(_ context.Context) (<-chan domain.RawDocumentChange, error) {
	changesCh := make(chan domain.RawDocumentChange, len(m.changes))
	go func() {
		defer close(changesCh)
		for _, change := range m.changes {
			changesCh <- change
		}
	}()
	return changesCh, nil
}

func (m *mockConnector) Close() error { return nil }

var _ driven.Connector = (*mockConnector)(nil)

// mockConnectorFactory implements driven.ConnectorFactory.
type mockConnectorFactory struct {
	connector *mockConnector
	err       error
}

func (m *mockConnectorFactory) Create(_ context.Context, matter domain.Matter) (driven.Connector, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.connector.matterID = matter.ID
	return m.connector, nil
}

var _ driven.ConnectorFactory = (*mockConnectorFactory)(nil)

// mockValidator implements driving.DraftValidator, replaying scripted
// reports.
type mockValidator struct {
	mu      sync.Mutex
	reports []*domain.ValidationReport
	err     error
	calls   int
}

func (m *mockValidator) Validate(_ context.Context, draftID string) (*domain.ValidationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.calls++
	if len(m.reports) == 0 {
		return &domain.ValidationReport{DraftID: draftID, Passed: true, Total: 1}, nil
	}
	report := m.reports[0]
	m.reports = m.reports[1:]
	report.DraftID = draftID
	return report, nil
}

func (m *mockValidator) ValidateBody(_ context.Context, draft *domain.Draft) (*domain.ValidationReport, error) {
	return m.Validate(context.Background(), draft.ID)
}

var _ driving.DraftValidator = (*mockValidator)(nil)

// seedMatter saves a matter with the given defendants into the store.
func seedMatter(ctx context.Context, store driven.MatterStore, id string, defendants ...string) (*domain.Matter, error) {
	matter := &domain.Matter{
		ID:           id,
		Caption:      "Doe v. " + fmt.Sprint(defendants),
		Plaintiff:    "Jane Doe",
		Defendants:   defendants,
		Jurisdiction: "N.D. Cal.",
		CauseSummary: "breach of contract and conversion",
	}
	if err := store.Save(ctx, matter); err != nil {
		return nil, err
	}
	return matter, nil
}
