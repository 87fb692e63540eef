package index

import (
	"log/slog"
	"time"

	"github.com/starford/othala/internal/models"
)

// Sync brings the index in line with the repository's record set:
//   - every current record is upserted
//   - indexed keys with no matching record are removed
//
// sourceSum is the checksum of the records file the set was loaded from;
// when it matches the stored checksum the whole pass is skipped.
func Sync(db *DB, records []models.Record, sourceSum string, logger *slog.Logger) error {
	stored, err := db.SourceChecksum()
	if err != nil {
		return err
	}
	if sourceSum != "" && stored == sourceSum {
		logger.Debug("sync: index up to date", slog.String("checksum", sourceSum))
		return nil
	}

	indexed, err := db.AllKeys()
	if err != nil {
		return err
	}

	current := make(map[int]struct{}, len(records))
	for _, rec := range records {
		current[rec.Key] = struct{}{}
		row := Row{
			Key:       rec.Key,
			Category:  rec.Category,
			Body:      rec.Body,
			UpdatedAt: time.Now(),
		}
		if err := db.UpsertRecord(row); err != nil {
			logger.Warn("sync: upsert failed", slog.Int("key", rec.Key), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.Int("key", rec.Key))
		}
	}

	// Remove stale entries.
	for key := range indexed {
		if _, ok := current[key]; !ok {
			if err := db.DeleteRecord(key); err != nil {
				logger.Warn("sync: delete failed", slog.Int("key", key), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.Int("key", key))
			}
		}
	}

	if sourceSum != "" {
		if err := db.SetSourceChecksum(sourceSum); err != nil {
			return err
		}
	}
	return nil
}
