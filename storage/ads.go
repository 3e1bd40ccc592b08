package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"olx-notifier/models"
)

// The uniqueness of external_id is enforced here, not in the pipeline:
// the existence check before insert is an optimization, the index is the
// source of truth.
const adsSchema = `
CREATE TABLE IF NOT EXISTS ads (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id         TEXT      NOT NULL,
	title               TEXT      NOT NULL,
	price               REAL      NOT NULL,
	url                 TEXT      NOT NULL,
	author_id           TEXT      NOT NULL,
	platform_created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS ads_id_uindex          ON ads (id);
CREATE UNIQUE INDEX IF NOT EXISTS ads_external_id_uindex ON ads (external_id);
CREATE INDEX IF NOT EXISTS ads_platform_created_at_index ON ads (platform_created_at);
`

// SQLiteAdStore persists accepted ads in SQLite, keyed by external id.
type SQLiteAdStore struct {
	db *sql.DB
}

// OpenAdStore opens (or creates) the database at path and runs the
// idempotent schema initialization.
func OpenAdStore(path string) (*SQLiteAdStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: enable foreign keys: %w", err)
	}

	s := &SQLiteAdStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteAdStore) initSchema() error {
	_, err := s.db.Exec(adsSchema)
	return err
}

// ExistingIDs returns, in one query, the subset of the candidate external
// ids already present in the store.
func (s *SQLiteAdStore) ExistingIDs(ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(
		"SELECT external_id FROM ads WHERE external_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query existing ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: scan external id: %w", err)
		}
		existing[id] = struct{}{}
	}
	return existing, rows.Err()
}

// Insert stores a new ad and returns its surrogate key. The creation
// timestamp defaults to the insertion time. Inserting an external id that
// already exists fails with the UNIQUE constraint error.
func (s *SQLiteAdStore) Insert(ad models.Ad) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO ads (external_id, title, price, url, author_id)
		VALUES (?, ?, ?, ?, ?)`,
		ad.ExternalID, ad.Title, ad.Price, ad.URL, ad.AuthorID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: insert ad %s: %w", ad.ExternalID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: last insert id: %w", err)
	}
	return id, nil
}

// Count returns the number of stored ads.
func (s *SQLiteAdStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM ads").Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *SQLiteAdStore) Close() error {
	return s.db.Close()
}
