// Package recordservice coordinates the repository, the search index, and
// persistence for the presentation layers (menu, one-shot commands, MCP).
package recordservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/othala/internal/checksum"
	"github.com/starford/othala/internal/codec"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/repo"
)

// Service wraps the repository with index maintenance and a dirty flag so
// callers know whether in-memory state has diverged from the records file.
//
// The repository itself is not safe for concurrent use, and the file watcher
// reloads it from a separate goroutine while the menu mutates it, so every
// method holds the service mutex.
type Service struct {
	mu     sync.Mutex
	repo   *repo.Repository
	db     *index.DB
	logger *slog.Logger
	dirty  bool
}

// NewService creates a new record service.
func NewService(r *repo.Repository, db *index.DB, logger *slog.Logger) *Service {
	return &Service{repo: r, db: db, logger: logger}
}

// Categories returns the registered category names.
func (s *Service) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Categories()
}

// Len returns the total record count.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Len()
}

// Dirty reports whether in-memory state has unsaved changes.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Create adds a record with a generated key and indexes it.
func (s *Service) Create(_ context.Context, category, body string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.repo.Create(category, body)
	if err != nil {
		return models.Record{}, err
	}
	if err := s.indexRecord(rec); err != nil {
		return models.Record{}, err
	}
	s.dirty = true
	return rec, nil
}

// CreateWithKey adds a record under a caller-supplied key and indexes it.
func (s *Service) CreateWithKey(_ context.Context, category string, key int, body string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.repo.CreateWithKey(category, key, body)
	if err != nil {
		return models.Record{}, err
	}
	if err := s.indexRecord(rec); err != nil {
		return models.Record{}, err
	}
	s.dirty = true
	return rec, nil
}

// Get returns the record with the given key.
func (s *Service) Get(_ context.Context, key int) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(key)
}

// List returns the records of one category in insertion order.
func (s *Service) List(_ context.Context, category string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.ListCategory(category)
}

// Delete removes a record from the repository and the index.
func (s *Service) Delete(_ context.Context, key int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(key); err != nil {
		return err
	}
	if err := s.db.DeleteRecord(key); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Edit updates a record's body and relocates it when category changed; the
// index row follows by key.
func (s *Service) Edit(_ context.Context, category string, key int, body string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.repo.Edit(category, key, body)
	if err != nil {
		return models.Record{}, err
	}
	if err := s.indexRecord(rec); err != nil {
		return models.Record{}, err
	}
	s.dirty = true
	return rec, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Search(query, limit)
}

// Save flushes the record set to the records file and marks the index as
// synced with it.
func (s *Service) Save(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Save(); err != nil {
		return err
	}
	sum, err := s.stateSum()
	if err != nil {
		return err
	}
	if err := s.db.SetSourceChecksum(sum); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Reload replaces in-memory state with the records file contents and resyncs
// the index. The sync is checksum-gated, so a reload after our own save is a
// no-op.
func (s *Service) Reload(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Load(); err != nil {
		return err
	}
	sum, err := s.stateSum()
	if err != nil {
		return err
	}
	if err := index.Sync(s.db, s.repo.All(), sum, s.logger); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// indexRecord upserts one record into the index.
func (s *Service) indexRecord(rec models.Record) error {
	return s.db.UpsertRecord(index.Row{
		Key:       rec.Key,
		Category:  rec.Category,
		Body:      rec.Body,
		UpdatedAt: time.Now(),
	})
}

// stateSum returns the checksum of the canonical encoding of the current
// record set, identical to the checksum of a file Save would write.
func (s *Service) stateSum() (string, error) {
	data, err := codec.Encode(s.repo.All())
	if err != nil {
		return "", err
	}
	return checksum.Sum(data), nil
}
