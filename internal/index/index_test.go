package index

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/othala/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "othala-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM records`).Scan(&count); err != nil {
		t.Fatalf("records table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM meta`).Scan(&count); err != nil {
		t.Fatalf("meta table missing: %v", err)
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	row := Row{
		Key:       1234567890,
		Category:  "Surgery",
		Body:      "Remove wisdom tooth",
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertRecord(row); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}

	got, err := db.GetRecord(1234567890)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got == nil || got.Category != "Surgery" || got.Body != "Remove wisdom tooth" {
		t.Errorf("row = %+v", got)
	}

	// Upsert with the same key replaces category and body.
	row.Category = "HygieneExam"
	row.Body = "changed"
	if err := db.UpsertRecord(row); err != nil {
		t.Fatalf("second UpsertRecord: %v", err)
	}
	got, _ = db.GetRecord(1234567890)
	if got.Category != "HygieneExam" || got.Body != "changed" {
		t.Errorf("row after upsert = %+v", got)
	}
}

func TestGetMissingIsNil(t *testing.T) {
	db := testDB(t)
	got, err := db.GetRecord(1234567890)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got != nil {
		t.Errorf("row = %+v, want nil", got)
	}
}

func TestDeleteRecord(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertRecord(Row{Key: 1234567890, Category: "Surgery", UpdatedAt: time.Now()})

	if err := db.DeleteRecord(1234567890); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	keys, err := db.AllKeys()
	if err != nil {
		t.Fatalf("AllKeys: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("keys = %v, want empty", keys)
	}
}

func TestSourceChecksum(t *testing.T) {
	db := testDB(t)

	sum, err := db.SourceChecksum()
	if err != nil {
		t.Fatalf("SourceChecksum: %v", err)
	}
	if sum != "" {
		t.Errorf("initial checksum = %q, want empty", sum)
	}

	if err := db.SetSourceChecksum("abc123"); err != nil {
		t.Fatalf("SetSourceChecksum: %v", err)
	}
	sum, _ = db.SourceChecksum()
	if sum != "abc123" {
		t.Errorf("checksum = %q, want abc123", sum)
	}

	if err := db.SetSourceChecksum("def456"); err != nil {
		t.Fatalf("overwrite SetSourceChecksum: %v", err)
	}
	sum, _ = db.SourceChecksum()
	if sum != "def456" {
		t.Errorf("checksum = %q, want def456", sum)
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertRecord(Row{Key: 1111111111, Category: "Surgery", Body: "Remove wisdom tooth", UpdatedAt: time.Now()})
	_ = db.UpsertRecord(Row{Key: 2222222222, Category: "HygieneExam", Body: "Routine cleaning", UpdatedAt: time.Now()})

	results, err := db.Search("wisdom", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Key != 1111111111 {
		t.Errorf("results = %+v", results)
	}

	results, err = db.Search("nothing-matches-this", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestSyncUpsertsAndRemovesStale(t *testing.T) {
	db := testDB(t)
	logger := discardLogger()

	_ = db.UpsertRecord(Row{Key: 9999999999, Category: "Surgery", Body: "stale", UpdatedAt: time.Now()})

	records := []models.Record{
		{Category: "Surgery", Key: 1111111111, Body: "one"},
		{Category: "HygieneExam", Key: 2222222222, Body: "two"},
	}
	if err := Sync(db, records, "sum-1", logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	keys, _ := db.AllKeys()
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want 2", keys)
	}
	if _, stale := keys[9999999999]; stale {
		t.Error("stale key survived sync")
	}

	sum, _ := db.SourceChecksum()
	if sum != "sum-1" {
		t.Errorf("stored checksum = %q", sum)
	}
}

func TestSyncSkipsWhenChecksumMatches(t *testing.T) {
	db := testDB(t)
	logger := discardLogger()

	records := []models.Record{{Category: "Surgery", Key: 1111111111, Body: "one"}}
	if err := Sync(db, records, "sum-1", logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	// Same checksum: the record set argument is ignored entirely.
	if err := Sync(db, nil, "sum-1", logger); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	keys, _ := db.AllKeys()
	if len(keys) != 1 {
		t.Errorf("keys = %v, want the synced record kept", keys)
	}
}
