package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker/internal/store"
)

// Repository persists one store to one JSON file.
type Repository struct {
	path    string
	storeID string
	loc     *time.Location
	logger  *log.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithLogger sets the logger for load and save events.
func WithLogger(l *log.Logger) RepositoryOption {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLocation sets the location reminder times are read in.
func WithLocation(loc *time.Location) RepositoryOption {
	return func(r *Repository) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewRepository returns a repository for the document at path.
func NewRepository(path string, opts ...RepositoryOption) *Repository {
	r := &Repository{
		path:   path,
		loc:    time.Local,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the document path.
func (r *Repository) Path() string {
	return r.path
}

// StoreID returns the id recorded in the document, empty before the first
// load or save.
func (r *Repository) StoreID() string {
	return r.storeID
}

// Load replaces the contents of s with the document. A missing file leaves
// s empty and is not an error.
func (r *Repository) Load(s *store.Store) ([]Warning, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("task file not found, starting empty", "path", r.path)
			s.Replace(store.Snapshot{})
			return nil, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	snap, warnings := Decode(doc, r.loc)
	for _, w := range warnings {
		r.logger.Warn("task file entry adjusted", "path", w.Path, "reason", w.Message)
	}
	s.Replace(snap)
	r.storeID = doc.StoreID
	r.logger.Debug("task file loaded", "path", r.path, "tasks", len(snap.Tasks))
	return warnings, nil
}

// Save writes the contents of s to the document and clears its modified
// flag. The file is replaced atomically.
func (r *Repository) Save(s *store.Store) error {
	doc := Encode(s.Snapshot(), r.storeID)
	r.storeID = doc.StoreID
	if err := WriteDocument(r.path, doc); err != nil {
		return err
	}
	s.MarkSaved()
	r.logger.Debug("task file saved", "path", r.path, "tasks", len(doc.Tasks))
	return nil
}

// ReadDocument reads and parses the document at path.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read task file: %w", err)
	}
	return Unmarshal(data)
}

// WriteDocument writes doc to path through a temporary file in the same
// directory.
func WriteDocument(path string, doc Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task file dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}
