// Package apperr defines the sentinel errors shared across Othala.
package apperr

import "errors"

var (
	// ErrNotFound means no record matches the requested key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey means a create or load tried to register a key
	// that is already in use.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidCategory means the named category is not registered.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidKey means the supplied key is not a non-negative integer
	// or a purely numeric string.
	ErrInvalidKey = errors.New("invalid key")
	// ErrMalformedKey means the key does not have the configured number
	// of digits.
	ErrMalformedKey = errors.New("malformed key")
	// ErrUnsupportedFormat means the save target is not a YAML file.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrKeyspaceExhausted means key generation gave up after too many
	// collisions. With the default 10-digit keyspace this is unreachable
	// in practice.
	ErrKeyspaceExhausted = errors.New("keyspace exhausted")
	// ErrPersistence wraps I/O and decode failures during load/save.
	ErrPersistence = errors.New("persistence failure")
)
