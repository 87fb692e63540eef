package repo

import (
	"fmt"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// Registry holds one insertion-ordered collection per registered category.
// It performs no cross-category searching; locating a record's owning
// category is the Repository's job.
type Registry struct {
	collections map[string][]models.Record
}

// NewRegistry builds a registry with an empty collection for every
// registered category.
func NewRegistry() *Registry {
	collections := make(map[string][]models.Record, len(models.Categories()))
	for _, name := range models.Categories() {
		collections[name] = nil
	}
	return &Registry{collections: collections}
}

// Categories returns the registered category names in declaration order.
func (g *Registry) Categories() []string {
	return models.Categories()
}

// RecordsOf returns the live collection for category.
func (g *Registry) RecordsOf(category string) ([]models.Record, error) {
	records, ok := g.collections[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidCategory, category)
	}
	return records, nil
}

// Add appends rec to the collection matching rec.Category.
func (g *Registry) Add(rec models.Record) error {
	if _, ok := g.collections[rec.Category]; !ok {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidCategory, rec.Category)
	}
	g.collections[rec.Category] = append(g.collections[rec.Category], rec)
	return nil
}

// Update replaces the record with rec.Key inside rec.Category, keeping its
// position in the collection.
func (g *Registry) Update(rec models.Record) error {
	records, ok := g.collections[rec.Category]
	if !ok {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidCategory, rec.Category)
	}
	for i := range records {
		if records[i].Key == rec.Key {
			records[i] = rec
			return nil
		}
	}
	return fmt.Errorf("%w: key %d in category %q", apperr.ErrNotFound, rec.Key, rec.Category)
}

// Remove deletes the record with key from category's collection.
func (g *Registry) Remove(category string, key int) error {
	records, ok := g.collections[category]
	if !ok {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidCategory, category)
	}
	for i := range records {
		if records[i].Key == key {
			g.collections[category] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: key %d in category %q", apperr.ErrNotFound, key, category)
}

// Len returns the total record count across all categories.
func (g *Registry) Len() int {
	n := 0
	for _, records := range g.collections {
		n += len(records)
	}
	return n
}
