// Package repo owns the in-memory record state: the per-category registry
// and the key index, plus the load/save round-trip to the YAML flat file.
package repo

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/codec"
	"github.com/starford/othala/internal/keygen"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

// DefaultFileName is the records file used when no configuration overrides it.
const DefaultFileName = "records.yaml"

// BackupSuffix is appended to the records file name for the previous-save
// backup generation.
const BackupSuffix = ".bak"

// Repository mediates every create/read/update/delete/persist operation.
// It is a single long-lived mutable store: the key index always mirrors the
// union of the registry's collections, and every key has the configured
// digit length. Not safe for concurrent use; the tool is single-user.
type Repository struct {
	store       storage.Provider
	file        string
	digitLength int

	registry *Registry
	keys     map[int]struct{}
}

// New builds an empty repository persisting to file (relative to the store
// root). Loading existing data is an explicit separate step, see Load.
func New(store storage.Provider, file string, digitLength int) *Repository {
	return &Repository{
		store:       store,
		file:        file,
		digitLength: digitLength,
		registry:    NewRegistry(),
		keys:        make(map[int]struct{}),
	}
}

// DigitLength returns the configured key width.
func (r *Repository) DigitLength() int {
	return r.digitLength
}

// Categories returns the registered category names.
func (r *Repository) Categories() []string {
	return r.registry.Categories()
}

// Len returns the total record count.
func (r *Repository) Len() int {
	return r.registry.Len()
}

// ParseKey converts a CLI-supplied key string to an integer. Anything but a
// purely numeric string fails with ErrInvalidKey.
func ParseKey(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty key", apperr.ErrInvalidKey)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q is not numeric", apperr.ErrInvalidKey, s)
		}
	}
	key, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", apperr.ErrInvalidKey, s, err)
	}
	return key, nil
}

// Create builds a record with a freshly generated key, registers it, and
// returns it.
func (r *Repository) Create(category, body string) (models.Record, error) {
	if !models.IsCategory(category) {
		return models.Record{}, fmt.Errorf("%w: %q", apperr.ErrInvalidCategory, category)
	}
	key, err := keygen.Generate(r.digitLength, r.keys)
	if err != nil {
		return models.Record{}, err
	}
	rec := models.Record{Category: category, Key: key, Body: body}
	if err := r.insert(rec); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

// CreateWithKey registers a record under a caller-supplied key. The key is
// always re-validated: wrong width fails with ErrMalformedKey, a key already
// in use fails with ErrDuplicateKey.
func (r *Repository) CreateWithKey(category string, key int, body string) (models.Record, error) {
	rec := models.Record{Category: category, Key: key, Body: body}
	if err := r.insert(rec); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

// insert validates rec and registers it in the registry and the key index.
// Every record entering the repository, whether created or loaded, passes
// through here.
func (r *Repository) insert(rec models.Record) error {
	if err := rec.Validate(r.digitLength); err != nil {
		return err
	}
	if _, taken := r.keys[rec.Key]; taken {
		return fmt.Errorf("%w: %d", apperr.ErrDuplicateKey, rec.Key)
	}
	if err := r.registry.Add(rec); err != nil {
		return err
	}
	r.keys[rec.Key] = struct{}{}
	return nil
}

// Get returns the record with the given key, searching every category.
func (r *Repository) Get(key int) (models.Record, error) {
	if key < 0 {
		return models.Record{}, fmt.Errorf("%w: %d", apperr.ErrInvalidKey, key)
	}
	for _, category := range r.registry.Categories() {
		records, _ := r.registry.RecordsOf(category)
		for _, rec := range records {
			if rec.Key == key {
				return rec, nil
			}
		}
	}
	return models.Record{}, fmt.Errorf("%w: key %d", apperr.ErrNotFound, key)
}

// ListCategory returns the records of one category in insertion order.
// An empty category is not an error.
func (r *Repository) ListCategory(category string) ([]models.Record, error) {
	records, err := r.registry.RecordsOf(category)
	if err != nil {
		return nil, err
	}
	out := make([]models.Record, len(records))
	copy(out, records)
	return out, nil
}

// Delete removes the record with the given key from its owning category and
// frees the key.
func (r *Repository) Delete(key int) error {
	if key < 0 {
		return fmt.Errorf("%w: %d", apperr.ErrInvalidKey, key)
	}
	for _, category := range r.registry.Categories() {
		records, _ := r.registry.RecordsOf(category)
		for _, rec := range records {
			if rec.Key == key {
				if err := r.registry.Remove(category, key); err != nil {
					return err
				}
				delete(r.keys, key)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: key %d", apperr.ErrNotFound, key)
}

// Edit replaces the body of the record with the given key and, when category
// names a different collection, relocates the record there keeping its key.
//
// The target category is checked first (the common case), then the remaining
// categories. A same-category edit swaps the record in place; a cross-category
// edit is delete-plus-recreate because categories are independent collections,
// not a mutable tag.
func (r *Repository) Edit(category string, key int, body string) (models.Record, error) {
	if !models.IsCategory(category) {
		return models.Record{}, fmt.Errorf("%w: %q", apperr.ErrInvalidCategory, category)
	}
	if key < 0 {
		return models.Record{}, fmt.Errorf("%w: %d", apperr.ErrInvalidKey, key)
	}

	// Fast path: the record already lives in the target category.
	records, _ := r.registry.RecordsOf(category)
	for _, rec := range records {
		if rec.Key == key {
			updated := models.Record{Category: category, Key: key, Body: body}
			if err := r.registry.Update(updated); err != nil {
				return models.Record{}, err
			}
			return updated, nil
		}
	}

	// Slow path: scan the remaining categories and relocate.
	for _, owner := range r.registry.Categories() {
		if owner == category {
			continue
		}
		records, _ := r.registry.RecordsOf(owner)
		for _, rec := range records {
			if rec.Key == key {
				if err := r.registry.Remove(owner, key); err != nil {
					return models.Record{}, err
				}
				delete(r.keys, key)
				updated := models.Record{Category: category, Key: key, Body: body}
				if err := r.insert(updated); err != nil {
					return models.Record{}, err
				}
				return updated, nil
			}
		}
	}

	return models.Record{}, fmt.Errorf("%w: key %d", apperr.ErrNotFound, key)
}

// All returns every record, categories in declaration order, insertion order
// within a category.
func (r *Repository) All() []models.Record {
	out := make([]models.Record, 0, r.registry.Len())
	for _, category := range r.registry.Categories() {
		records, _ := r.registry.RecordsOf(category)
		out = append(out, records...)
	}
	return out
}

// Save serializes the full record set to the records file. The previous file
// is copied to a single .bak generation first, so a failed write leaves the
// primary file untouched; the write itself is atomic.
func (r *Repository) Save() error {
	if err := codec.CheckPath(r.file); err != nil {
		return err
	}
	data, err := codec.Encode(r.All())
	if err != nil {
		return err
	}
	exists, err := r.store.Exists(r.file)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
	if exists {
		prev, err := r.store.Read(r.file)
		if err != nil {
			return fmt.Errorf("%w: backup: %w", apperr.ErrPersistence, err)
		}
		if err := r.store.Write(r.file+BackupSuffix, prev); err != nil {
			return fmt.Errorf("%w: backup: %w", apperr.ErrPersistence, err)
		}
	}
	if err := r.store.Write(r.file, data); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
	return nil
}

// Load replaces the in-memory state with the contents of the records file.
// A missing file leaves the repository empty; a first run is not an error.
// Every loaded record passes the same validation as a create, so a file
// carrying duplicate or malformed keys fails the load.
func (r *Repository) Load() error {
	data, err := r.store.Read(r.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.reset()
			return nil
		}
		return fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
	records, err := codec.Decode(data)
	if err != nil {
		return err
	}
	r.reset()
	for _, rec := range records {
		if err := r.insert(rec); err != nil {
			return fmt.Errorf("load record %d: %w", rec.Key, err)
		}
	}
	return nil
}

func (r *Repository) reset() {
	r.registry = NewRegistry()
	r.keys = make(map[int]struct{})
}
