// Package filesystem provides a connector that ingests a matter's
// intake directory from local disk.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// extraMIMETypes covers extensions the platform MIME table may miss.
var extraMIMETypes = map[string]string{
	".md":   "text/markdown",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Connector reads documents from a matter's intake directory.
type Connector struct {
	matterID string
	rootPath string
	watcher  *fsnotify.Watcher
}

// New creates a filesystem connector rooted at the given path.
func New(matterID, rootPath string) *Connector {
	return &Connector{
		matterID: matterID,
		rootPath: rootPath,
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "filesystem"
}

// MatterID returns the configured matter ID.
func (c *Connector) MatterID() string {
	return c.matterID
}

// Capabilities returns what this connector supports.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsWatch:      true,
		SupportsBinary:     true,
		SupportsValidation: true,
	}
}

// Validate checks the intake directory exists and is readable.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.rootPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: intake directory does not exist: %s", domain.ErrConnectorValidation, c.rootPath)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnectorValidation, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: intake path is not a directory: %s", domain.ErrConnectorValidation, c.rootPath)
	}
	if _, err := os.ReadDir(c.rootPath); err != nil {
		return fmt.Errorf("%w: intake directory not readable: %v", domain.ErrConnectorValidation, err)
	}
	return nil
}

// FullIngest walks the intake directory and emits every regular file.
// Hidden files and directories are skipped.
func (c *Connector) FullIngest(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docsCh := make(chan domain.RawDocument)
	errsCh := make(chan error, 1)

	go func() {
		defer close(docsCh)
		defer close(errsCh)

		if _, err := os.Stat(c.rootPath); os.IsNotExist(err) {
			errsCh <- fmt.Errorf("intake directory does not exist: %s", c.rootPath)
			return
		}

		err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isHidden(d.Name()) && path != c.rootPath {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			doc, err := c.readDocument(path)
			if err != nil {
				errsCh <- err
				return nil // keep walking
			}

			select {
			case docsCh <- *doc:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			errsCh <- err
		}
	}()

	return docsCh, errsCh
}

// Watch emits change events as files appear, change or disappear in
// the intake directory.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}
	c.watcher = watcher

	changes := make(chan domain.RawDocumentChange)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change, ok := c.toChange(event)
				if !ok {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are transient; keep watching.
			}
		}
	}()

	return changes, nil
}

// Close releases resources.
func (c *Connector) Close() error {
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// toChange converts an fsnotify event to a document change, reading
// file content for creates and updates. Hidden files are ignored.
func (c *Connector) toChange(event fsnotify.Event) (*domain.RawDocumentChange, bool) {
	if isHidden(filepath.Base(event.Name)) {
		return nil, false
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil, false
		}
		doc, err := c.readDocument(event.Name)
		if err != nil {
			return nil, false
		}
		changeType := domain.ChangeCreated
		if event.Op.Has(fsnotify.Write) {
			changeType = domain.ChangeUpdated
		}
		return &domain.RawDocumentChange{Type: changeType, Document: *doc}, true

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return &domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				MatterID: c.matterID,
				URI:      event.Name,
			},
		}, true
	}
	return nil, false
}

// readDocument loads a file into a raw document with MIME detection.
func (c *Connector) readDocument(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	filename := filepath.Base(path)
	ext := filepath.Ext(filename)

	return &domain.RawDocument{
		MatterID: c.matterID,
		URI:      path,
		MIMEType: detectMIME(ext),
		Content:  content,
		Metadata: map[string]any{
			"filename":  filename,
			"extension": strings.TrimPrefix(ext, "."),
		},
	}, nil
}

// detectMIME maps a file extension to a MIME type, preferring the
// override table over the platform's MIME database.
func detectMIME(ext string) string {
	lower := strings.ToLower(ext)
	if mimeType, ok := extraMIMETypes[lower]; ok {
		return mimeType
	}
	if mimeType := mime.TypeByExtension(lower); mimeType != "" {
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = mimeType[:i]
		}
		return strings.TrimSpace(mimeType)
	}
	return "application/octet-stream"
}

// isHidden reports whether a file or directory name is dot-prefixed.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
