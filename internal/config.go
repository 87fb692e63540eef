package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/othala/internal/codec"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/repo"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Records RecordsConfig     `yaml:"records"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Records.Validate(); err != nil {
		return err
	}
	return c.SQLite.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// RecordsConfig holds the location and shape of the records flat file.
type RecordsConfig struct {
	// Dir is the data directory holding the records file and its backup.
	Dir string `yaml:"dir"`
	// File is the records file name inside Dir. Must be a YAML file.
	File string `yaml:"file"`
	// DigitLength is the key width for every record. Changing it on an
	// existing collection makes the next load fail validation.
	DigitLength int `yaml:"digit_length"`
}

// Validate validates the records configuration.
func (c *RecordsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.File, validation.Required, validation.By(checkYAMLFile)),
		validation.Field(&c.DigitLength, validation.Required, validation.Min(1), validation.Max(18)),
	)
}

func checkYAMLFile(value interface{}) error {
	name, _ := value.(string)
	return codec.CheckPath(name)
}

// SQLiteConfig holds the search index database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Records: RecordsConfig{
			Dir:         "./data",
			File:        repo.DefaultFileName,
			DigitLength: models.DefaultDigitLength,
		},
		SQLite: SQLiteConfig{
			Path: "./othala.db",
		},
	}
}
