// Package models defines the domain types for Othala.
package models

import (
	"fmt"
	"strconv"

	"github.com/starford/othala/internal/apperr"
)

// DefaultDigitLength is the key width used when no configuration overrides it.
const DefaultDigitLength = 10

// Registered template categories. The set is closed: the repository and the
// codec both consult it, and nothing discovers categories at runtime.
const (
	CategoryLimitedExam       = "LimitedExam"
	CategorySurgery           = "Surgery"
	CategoryHygieneExam       = "HygieneExam"
	CategoryPeriodicExam      = "PeriodicExam"
	CategoryComprehensiveExam = "ComprehensiveExam"
)

var categories = []string{
	CategoryLimitedExam,
	CategorySurgery,
	CategoryHygieneExam,
	CategoryPeriodicExam,
	CategoryComprehensiveExam,
}

// Categories returns the registered category names in declaration order.
// The caller must not mutate the returned slice.
func Categories() []string {
	return categories
}

// IsCategory reports whether name is a registered category.
func IsCategory(name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}

// Record is a single categorized note template. Records are value objects:
// an edit replaces the whole record rather than mutating it in place.
type Record struct {
	Category string `yaml:"_type" json:"category"`
	Key      int    `yaml:"id" json:"key"`
	Body     string `yaml:"note" json:"body"`
}

// Equal reports whether other refers to the same record. Identity is the
// key alone, so a record can be matched across categories.
func (r Record) Equal(other Record) bool {
	return r.Key == other.Key
}

// Display renders the record for a human:
//
//	Type: Surgery
//	ID: 1234567890
//
//	<body>
func (r Record) Display() string {
	return fmt.Sprintf("Type: %s\nID: %d\n\n%s", r.Category, r.Key, r.Body)
}

// Validate checks category membership and key width. The body may be empty.
// Sentinel errors are returned directly so callers can branch with errors.Is.
func (r Record) Validate(digitLength int) error {
	if !IsCategory(r.Category) {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidCategory, r.Category)
	}
	if r.Key < 0 || len(strconv.Itoa(r.Key)) != digitLength {
		return fmt.Errorf("%w: key %d must have exactly %d digits", apperr.ErrMalformedKey, r.Key, digitLength)
	}
	return nil
}
