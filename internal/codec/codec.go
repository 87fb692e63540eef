// Package codec serializes the record set to and from the YAML flat file.
//
// The on-disk shape is a top-level sequence of mappings with exactly three
// keys per element:
//
//	- _type: Surgery
//	  id: 1234567890
//	  note: |
//	    Remove wisdom tooth.
package codec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// CheckPath rejects save targets whose extension is not a recognized YAML
// extension.
func CheckPath(path string) error {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return nil
	}
	return fmt.Errorf("%w: %s must end in .yaml or .yml", apperr.ErrUnsupportedFormat, path)
}

// Encode renders records as a YAML sequence. An empty set encodes to an
// empty document.
func Encode(records []models.Record) ([]byte, error) {
	if len(records) == 0 {
		return []byte{}, nil
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", apperr.ErrPersistence, err)
	}
	return data, nil
}

// Decode parses a YAML flat file into record values. Empty input yields an
// empty slice rather than an error, so a first run starts clean. Decode does
// not deduplicate keys; the repository's key index rejects duplicates when
// the records are registered.
func Decode(data []byte) ([]models.Record, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []models.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", apperr.ErrPersistence, err)
	}
	return records, nil
}
