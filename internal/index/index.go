package index

// RecordIndex defines the interface for record indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type RecordIndex interface {
	UpsertRecord(r Row) error
	DeleteRecord(key int) error
	GetRecord(key int) (*Row, error)
	AllKeys() (map[int]struct{}, error)
	Search(query string, limit int) ([]SearchResult, error)
	SourceChecksum() (string, error)
	SetSourceChecksum(sum string) error
	Close() error
}

// Verify *DB satisfies RecordIndex at compile time.
var _ RecordIndex = (*DB)(nil)
