package repo

import (
	"errors"
	"testing"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

func TestRegistryUnknownCategory(t *testing.T) {
	g := NewRegistry()

	if _, err := g.RecordsOf("RootCanal"); !errors.Is(err, apperr.ErrInvalidCategory) {
		t.Errorf("RecordsOf error = %v, want ErrInvalidCategory", err)
	}
	err := g.Add(models.Record{Category: "RootCanal", Key: 1234567890})
	if !errors.Is(err, apperr.ErrInvalidCategory) {
		t.Errorf("Add error = %v, want ErrInvalidCategory", err)
	}
	if err := g.Remove("RootCanal", 1234567890); !errors.Is(err, apperr.ErrInvalidCategory) {
		t.Errorf("Remove error = %v, want ErrInvalidCategory", err)
	}
}

func TestRegistryAddRemove(t *testing.T) {
	g := NewRegistry()
	rec := models.Record{Category: models.CategorySurgery, Key: 1234567890, Body: "x"}

	if err := g.Add(rec); err != nil {
		t.Fatalf("Add: %v", err)
	}
	records, err := g.RecordsOf(models.CategorySurgery)
	if err != nil {
		t.Fatalf("RecordsOf: %v", err)
	}
	if len(records) != 1 || records[0] != rec {
		t.Fatalf("records = %+v", records)
	}

	if err := g.Remove(models.CategorySurgery, 1234567890); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len = %d, want 0", g.Len())
	}
	if err := g.Remove(models.CategorySurgery, 1234567890); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second Remove error = %v, want ErrNotFound", err)
	}
}

func TestRegistryUpdateKeepsPosition(t *testing.T) {
	g := NewRegistry()
	first := models.Record{Category: models.CategorySurgery, Key: 1111111111, Body: "first"}
	second := models.Record{Category: models.CategorySurgery, Key: 2222222222, Body: "second"}
	_ = g.Add(first)
	_ = g.Add(second)

	updated := models.Record{Category: models.CategorySurgery, Key: 1111111111, Body: "changed"}
	if err := g.Update(updated); err != nil {
		t.Fatalf("Update: %v", err)
	}

	records, _ := g.RecordsOf(models.CategorySurgery)
	if records[0] != updated {
		t.Errorf("records[0] = %+v, want %+v", records[0], updated)
	}
	if records[1] != second {
		t.Errorf("records[1] = %+v, want untouched %+v", records[1], second)
	}

	missing := models.Record{Category: models.CategoryHygieneExam, Key: 1111111111}
	if err := g.Update(missing); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Update in wrong category = %v, want ErrNotFound", err)
	}
}
