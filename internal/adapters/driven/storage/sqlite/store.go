package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lawyerfactory/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lawyerfactory", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// MatterStore returns a MatterStore interface backed by this store.
func (s *Store) MatterStore() driven.MatterStore {
	return &matterStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ClusterStore returns a ClusterStore interface backed by this store.
func (s *Store) ClusterStore() driven.ClusterStore {
	return &clusterStore{store: s}
}

// EvidenceStore returns an EvidenceStore interface backed by this store.
func (s *Store) EvidenceStore() driven.EvidenceStore {
	return &evidenceStore{store: s}
}

// DraftStore returns a DraftStore interface backed by this store.
func (s *Store) DraftStore() driven.DraftStore {
	return &draftStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Matter Store ====================

// matterStore implements driven.MatterStore.
type matterStore struct {
	store *Store
}

var _ driven.MatterStore = (*matterStore)(nil)

// Save stores or updates a matter.
func (s *matterStore) Save(ctx context.Context, matter *domain.Matter) error {
	defendantsJSON, err := json.Marshal(matter.Defendants)
	if err != nil {
		return fmt.Errorf("marshalling defendants: %w", err)
	}
	factsJSON, err := json.Marshal(matter.Facts)
	if err != nil {
		return fmt.Errorf("marshalling facts: %w", err)
	}

	now := time.Now().UTC()
	if matter.CreatedAt.IsZero() {
		matter.CreatedAt = now
	}
	matter.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO matters (id, caption, plaintiff, defendants, jurisdiction, cause_summary, intake_dir, facts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			caption = excluded.caption,
			plaintiff = excluded.plaintiff,
			defendants = excluded.defendants,
			jurisdiction = excluded.jurisdiction,
			cause_summary = excluded.cause_summary,
			intake_dir = excluded.intake_dir,
			facts = excluded.facts,
			updated_at = excluded.updated_at
	`, matter.ID, matter.Caption, matter.Plaintiff, string(defendantsJSON),
		matter.Jurisdiction, matter.CauseSummary, matter.IntakeDir, string(factsJSON),
		matter.CreatedAt, matter.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving matter: %w", err)
	}
	return nil
}

// Get retrieves a matter by ID.
func (s *matterStore) Get(ctx context.Context, id string) (*domain.Matter, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, caption, plaintiff, defendants, jurisdiction, cause_summary, intake_dir, facts, created_at, updated_at
		FROM matters WHERE id = ?
	`, id)

	return scanMatter(row.Scan)
}

// List returns all matters.
func (s *matterStore) List(ctx context.Context) ([]domain.Matter, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, caption, plaintiff, defendants, jurisdiction, cause_summary, intake_dir, facts, created_at, updated_at
		FROM matters ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying matters: %w", err)
	}
	defer rows.Close()

	var matters []domain.Matter //nolint:prealloc // size unknown from query
	for rows.Next() {
		matter, err := scanMatter(rows.Scan)
		if err != nil {
			return nil, err
		}
		matters = append(matters, *matter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matters: %w", err)
	}

	return matters, nil
}

// Delete removes a matter.
func (s *matterStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM matters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting matter: %w", err)
	}
	return nil
}

// scanMatter scans a matter using the row or rows scan function.
func scanMatter(scan func(dest ...any) error) (*domain.Matter, error) {
	var matter domain.Matter
	var defendantsJSON, factsJSON string

	if err := scan(&matter.ID, &matter.Caption, &matter.Plaintiff, &defendantsJSON,
		&matter.Jurisdiction, &matter.CauseSummary, &matter.IntakeDir, &factsJSON,
		&matter.CreatedAt, &matter.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning matter: %w", err)
	}

	if err := json.Unmarshal([]byte(defendantsJSON), &matter.Defendants); err != nil {
		return nil, fmt.Errorf("unmarshalling defendants: %w", err)
	}
	if err := json.Unmarshal([]byte(factsJSON), &matter.Facts); err != nil {
		return nil, fmt.Errorf("unmarshalling facts: %w", err)
	}

	return &matter, nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, matter_id, uri, title, content, doc_type, authority, defendant, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			matter_id = excluded.matter_id,
			uri = excluded.uri,
			title = excluded.title,
			content = excluded.content,
			doc_type = excluded.doc_type,
			authority = excluded.authority,
			defendant = excluded.defendant,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, doc.ID, doc.MatterID, doc.URI, doc.Title, doc.Content,
		string(doc.DocType), string(doc.Authority), doc.Defendant,
		string(metadataJSON), doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveChunks stores chunks for a document.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			content = excluded.content,
			position = excluded.position,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.Position, embeddingBlob, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, matter_id, uri, title, content, doc_type, authority, defendant, metadata, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row.Scan)
}

// GetDocumentByURI retrieves a document by matter and URI.
func (s *documentStore) GetDocumentByURI(ctx context.Context, matterID, uri string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, matter_id, uri, title, content, doc_type, authority, defendant, metadata, created_at, updated_at
		FROM documents WHERE matter_id = ? AND uri = ?
	`, matterID, uri)

	return scanDocument(row.Scan)
}

// GetChunks retrieves all chunks for a document.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, embedding, metadata
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, content, position, embedding, metadata
		FROM chunks WHERE id = ?
	`, id)

	return scanChunk(row.Scan)
}

// DeleteDocument removes a document and its chunks.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns documents for a matter.
func (s *documentStore) ListDocuments(ctx context.Context, matterID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, matter_id, uri, title, content, doc_type, authority, defendant, metadata, created_at, updated_at
		FROM documents WHERE matter_id = ?
	`, matterID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// scanDocument scans a document using the row or rows scan function.
func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	var doc domain.Document
	var docType, authority, metadataJSON string

	if err := scan(&doc.ID, &doc.MatterID, &doc.URI, &doc.Title, &doc.Content,
		&docType, &authority, &doc.Defendant, &metadataJSON,
		&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.DocType = domain.DocType(docType)
	doc.Authority = domain.AuthorityLevel(authority)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}

	return &doc, nil
}

// scanChunk scans a chunk using the row or rows scan function.
func scanChunk(scan func(dest ...any) error) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string

	if err := scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
		&chunk.Position, &embeddingBlob, &metadataJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}

// ==================== Cluster Store ====================

// clusterStore implements driven.ClusterStore.
type clusterStore struct {
	store *Store
}

var _ driven.ClusterStore = (*clusterStore)(nil)

// SaveCluster stores or updates a cluster.
func (s *clusterStore) SaveCluster(ctx context.Context, cluster *domain.Cluster) error {
	now := time.Now().UTC()
	if cluster.CreatedAt.IsZero() {
		cluster.CreatedAt = now
	}
	cluster.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO clusters (id, matter_id, key, kind, label, member_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			member_count = excluded.member_count,
			updated_at = excluded.updated_at
	`, cluster.ID, cluster.MatterID, cluster.Key, string(cluster.Kind), cluster.Label,
		cluster.MemberCount, cluster.CreatedAt, cluster.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving cluster: %w", err)
	}
	return nil
}

// GetCluster retrieves a cluster by matter and key.
func (s *clusterStore) GetCluster(ctx context.Context, matterID, key string) (*domain.Cluster, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, matter_id, key, kind, label, member_count, created_at, updated_at
		FROM clusters WHERE matter_id = ? AND key = ?
	`, matterID, key)

	return scanCluster(row.Scan)
}

// ListClusters returns all clusters for a matter.
func (s *clusterStore) ListClusters(ctx context.Context, matterID string) ([]domain.Cluster, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, matter_id, key, kind, label, member_count, created_at, updated_at
		FROM clusters WHERE matter_id = ? ORDER BY key
	`, matterID)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var clusters []domain.Cluster //nolint:prealloc // size unknown from query
	for rows.Next() {
		cluster, err := scanCluster(rows.Scan)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, *cluster)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clusters: %w", err)
	}

	return clusters, nil
}

// AddMember assigns a chunk to a cluster.
func (s *clusterStore) AddMember(ctx context.Context, member domain.ClusterMember) error {
	if member.AddedAt.IsZero() {
		member.AddedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO cluster_members (cluster_id, chunk_id, document_id, embedding, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cluster_id, chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			embedding = excluded.embedding,
			added_at = excluded.added_at
	`, member.ClusterID, member.ChunkID, member.DocumentID,
		float32SliceToBytes(member.Embedding), member.AddedAt)

	if err != nil {
		return fmt.Errorf("adding cluster member: %w", err)
	}
	return nil
}

// ListMembers returns all members of a cluster.
func (s *clusterStore) ListMembers(ctx context.Context, clusterID string) ([]domain.ClusterMember, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT cluster_id, chunk_id, document_id, embedding, added_at
		FROM cluster_members WHERE cluster_id = ? ORDER BY added_at
	`, clusterID)
	if err != nil {
		return nil, fmt.Errorf("querying cluster members: %w", err)
	}
	defer rows.Close()

	var members []domain.ClusterMember //nolint:prealloc // size unknown from query
	for rows.Next() {
		var member domain.ClusterMember
		var embeddingBlob []byte
		if err := rows.Scan(&member.ClusterID, &member.ChunkID, &member.DocumentID,
			&embeddingBlob, &member.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning cluster member: %w", err)
		}
		member.Embedding = bytesToFloat32Slice(embeddingBlob)
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cluster members: %w", err)
	}

	return members, nil
}

// RemoveMembers removes all memberships for a document.
func (s *clusterStore) RemoveMembers(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM cluster_members WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("removing cluster members: %w", err)
	}
	return nil
}

// DeleteCluster removes a cluster and its memberships.
func (s *clusterStore) DeleteCluster(ctx context.Context, clusterID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM clusters WHERE id = ?", clusterID)
	if err != nil {
		return fmt.Errorf("deleting cluster: %w", err)
	}
	return nil
}

// scanCluster scans a cluster using the row or rows scan function.
func scanCluster(scan func(dest ...any) error) (*domain.Cluster, error) {
	var cluster domain.Cluster
	var kind string

	if err := scan(&cluster.ID, &cluster.MatterID, &cluster.Key, &kind, &cluster.Label,
		&cluster.MemberCount, &cluster.CreatedAt, &cluster.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cluster: %w", err)
	}

	cluster.Kind = domain.ClusterKind(kind)
	return &cluster, nil
}

// ==================== Evidence Store ====================

// evidenceStore implements driven.EvidenceStore.
type evidenceStore struct {
	store *Store
}

var _ driven.EvidenceStore = (*evidenceStore)(nil)

// Save stores or updates an evidence item.
func (s *evidenceStore) Save(ctx context.Context, item *domain.EvidenceItem) error {
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO evidence_items (id, matter_id, uri, title, class, status, error, document_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			title = excluded.title,
			class = excluded.class,
			status = excluded.status,
			error = excluded.error,
			document_id = excluded.document_id,
			updated_at = excluded.updated_at
	`, item.ID, item.MatterID, item.URI, item.Title, string(item.Class),
		string(item.Status), item.Error, item.DocumentID, item.CreatedAt, item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving evidence item: %w", err)
	}
	return nil
}

// Get retrieves an evidence item by ID.
func (s *evidenceStore) Get(ctx context.Context, id string) (*domain.EvidenceItem, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, matter_id, uri, title, class, status, error, document_id, created_at, updated_at
		FROM evidence_items WHERE id = ?
	`, id)

	return scanEvidenceItem(row.Scan)
}

// List returns evidence items for a matter, oldest first.
func (s *evidenceStore) List(ctx context.Context, matterID string) ([]domain.EvidenceItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, matter_id, uri, title, class, status, error, document_id, created_at, updated_at
		FROM evidence_items WHERE matter_id = ? ORDER BY created_at
	`, matterID)
	if err != nil {
		return nil, fmt.Errorf("querying evidence items: %w", err)
	}
	defer rows.Close()

	var items []domain.EvidenceItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		item, err := scanEvidenceItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evidence items: %w", err)
	}

	return items, nil
}

// ListPending returns all queued or processing items, oldest first.
func (s *evidenceStore) ListPending(ctx context.Context) ([]domain.EvidenceItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, matter_id, uri, title, class, status, error, document_id, created_at, updated_at
		FROM evidence_items WHERE status IN (?, ?) ORDER BY created_at
	`, string(domain.EvidenceQueued), string(domain.EvidenceProcessing))
	if err != nil {
		return nil, fmt.Errorf("querying pending evidence items: %w", err)
	}
	defer rows.Close()

	var items []domain.EvidenceItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		item, err := scanEvidenceItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending evidence items: %w", err)
	}

	return items, nil
}

// CountByStatus counts a matter's items in each queue state.
func (s *evidenceStore) CountByStatus(ctx context.Context, matterID string) (domain.QueueStatus, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM evidence_items WHERE matter_id = ? GROUP BY status
	`, matterID)
	if err != nil {
		return domain.QueueStatus{}, fmt.Errorf("counting evidence items: %w", err)
	}
	defer rows.Close()

	var status domain.QueueStatus
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return domain.QueueStatus{}, fmt.Errorf("scanning evidence count: %w", err)
		}
		switch domain.EvidenceStatus(state) {
		case domain.EvidenceQueued:
			status.Queued = count
		case domain.EvidenceProcessing:
			status.Processing = count
		case domain.EvidenceClassified:
			status.Classified = count
		case domain.EvidenceComplete:
			status.Complete = count
		case domain.EvidenceFailed:
			status.Failed = count
		}
	}

	if err := rows.Err(); err != nil {
		return domain.QueueStatus{}, fmt.Errorf("iterating evidence counts: %w", err)
	}

	return status, nil
}

// scanEvidenceItem scans an evidence item using the row or rows scan function.
func scanEvidenceItem(scan func(dest ...any) error) (*domain.EvidenceItem, error) {
	var item domain.EvidenceItem
	var class, status string

	if err := scan(&item.ID, &item.MatterID, &item.URI, &item.Title, &class, &status,
		&item.Error, &item.DocumentID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning evidence item: %w", err)
	}

	item.Class = domain.EvidenceClass(class)
	item.Status = domain.EvidenceStatus(status)
	return &item, nil
}

// ==================== Draft Store ====================

// draftStore implements driven.DraftStore.
type draftStore struct {
	store *Store
}

var _ driven.DraftStore = (*draftStore)(nil)

// SaveDraft stores or updates a draft.
func (s *draftStore) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO drafts (id, matter_id, defendant, body, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			body = excluded.body,
			version = excluded.version
	`, draft.ID, draft.MatterID, draft.Defendant, draft.Body, draft.Version, draft.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// GetDraft retrieves a draft by ID.
func (s *draftStore) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, matter_id, defendant, body, version, created_at
		FROM drafts WHERE id = ?
	`, id)

	var draft domain.Draft
	if err := row.Scan(&draft.ID, &draft.MatterID, &draft.Defendant, &draft.Body,
		&draft.Version, &draft.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning draft: %w", err)
	}
	return &draft, nil
}

// ListDrafts returns drafts for a matter, newest first.
func (s *draftStore) ListDrafts(ctx context.Context, matterID string) ([]domain.Draft, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, matter_id, defendant, body, version, created_at
		FROM drafts WHERE matter_id = ? ORDER BY created_at DESC
	`, matterID)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.Draft //nolint:prealloc // size unknown from query
	for rows.Next() {
		var draft domain.Draft
		if err := rows.Scan(&draft.ID, &draft.MatterID, &draft.Defendant, &draft.Body,
			&draft.Version, &draft.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		drafts = append(drafts, draft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}

	return drafts, nil
}

// SaveReport stores a validation report.
func (s *draftStore) SaveReport(ctx context.Context, report *domain.ValidationReport) error {
	checksJSON, err := json.Marshal(report.Checks)
	if err != nil {
		return fmt.Errorf("marshalling checks: %w", err)
	}

	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO validation_reports (id, draft_id, checks, total, threshold, passed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.DraftID, string(checksJSON), report.Total, report.Threshold,
		report.Passed, report.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving validation report: %w", err)
	}
	return nil
}

// ListReports returns validation reports for a draft, newest first.
func (s *draftStore) ListReports(ctx context.Context, draftID string) ([]domain.ValidationReport, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, draft_id, checks, total, threshold, passed, created_at
		FROM validation_reports WHERE draft_id = ? ORDER BY created_at DESC
	`, draftID)
	if err != nil {
		return nil, fmt.Errorf("querying validation reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.ValidationReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		var report domain.ValidationReport
		var checksJSON string
		if err := rows.Scan(&report.ID, &report.DraftID, &checksJSON, &report.Total,
			&report.Threshold, &report.Passed, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning validation report: %w", err)
		}
		if err := json.Unmarshal([]byte(checksJSON), &report.Checks); err != nil {
			return nil, fmt.Errorf("unmarshalling checks: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating validation reports: %w", err)
	}

	return reports, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
