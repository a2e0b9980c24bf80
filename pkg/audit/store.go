package audit

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"
)

// Store persists audit events to the audit_logs table
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Metadata is the jsonb document stored alongside each audit row
type Metadata struct {
	Message  string                       `json:"message"`
	Facility int                          `json:"facility"`
	Sdata    map[string]map[string]string `json:"sdata"`
}

// NewStore opens a store on the given Postgres URL.
// Returns nil if the URL is empty (persistence disabled).
func NewStore(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	return NewStoreWithDB(db), nil
}

// NewStoreWithDB creates a store with an existing database connection
// Useful for testing with sqlmock
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event to the database
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}

	sdata := event.StructuredData()
	metadata, err := json.Marshal(Metadata{
		Message:  event.Message(),
		Facility: event.Facility(),
		Sdata:    sdata,
	})
	if err != nil {
		return err
	}

	var userID sql.NullString
	if user := sdata[SDIDAuth]["user"]; user != "" {
		userID = sql.NullString{String: user, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO audit_logs (user_id, action, resource, metadata, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		userID,
		event.MessageID(),
		sdata[SDIDSubject]["resource"],
		metadata,
		int(event.Severity()),
		s.now().UTC(),
	)

	return err
}

// DB returns the underlying database connection (for testing)
func (s *Store) DB() *sql.DB {
	return s.db
}
