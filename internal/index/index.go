// Package index maintains a queryable SQLite summary of every
// publication the network run has resolved. The JSON cache remains the
// source of truth; the index exists so runs can be inspected with SQL
// or the list command without walking the cache tree.
package index

import (
	"database/sql"
	"fmt"

	"github.com/rbalebako/lit-review-search/internal/pub"
	_ "modernc.org/sqlite"
)

// Summary is one indexed publication row.
type Summary struct {
	ID             string
	DOI            string
	EID            string
	DBLPKey        string
	Title          string
	Year           int
	ReferenceCount int
	CitationCount  int
	URL            string
}

// DB wraps the SQLite index connection.
type DB struct {
	db *sql.DB
}

const selectFields = `id, doi, eid, dblp_key, title, pub_year, reference_count, citation_count, url`

// Open opens or creates the index database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS publications (
			id TEXT PRIMARY KEY,
			doi TEXT,
			eid TEXT,
			dblp_key TEXT,
			title TEXT NOT NULL,
			pub_year INTEGER,
			reference_count INTEGER NOT NULL,
			citation_count INTEGER NOT NULL,
			url TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_publications_doi
			ON publications(doi) WHERE doi IS NOT NULL AND doi != '';
		CREATE INDEX IF NOT EXISTS idx_publications_year
			ON publications(pub_year);
	`
	_, err := db.Exec(schema)
	return err
}

// Upsert inserts or replaces the summary row for a publication.
func (d *DB) Upsert(p *pub.Publication) error {
	id := p.ID()
	if id == "" {
		return pub.ErrNoIdentifier
	}
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO publications (`+selectFields+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, nullable(p.DOI), nullable(p.EID), nullable(p.DBLPKey),
		p.Title, p.Year, p.ReferenceCount(), p.CitationCount(), nullable(p.URL))
	if err != nil {
		return fmt.Errorf("indexing %s: %w", id, err)
	}
	return nil
}

// GetByID returns the summary row for an identifier, nil when absent.
func (d *DB) GetByID(id string) (*Summary, error) {
	row := d.db.QueryRow(`SELECT `+selectFields+` FROM publications WHERE id = ?`, id)
	return scanSummary(row)
}

// List returns summary rows ordered by year then identifier. Zero
// bounds leave that end of the year range open; limit 0 means all.
func (d *DB) List(minYear, maxYear, limit int) ([]Summary, error) {
	query := `SELECT ` + selectFields + ` FROM publications WHERE 1=1`
	var args []interface{}

	if minYear > 0 {
		query += " AND pub_year >= ?"
		args = append(args, minYear)
	}
	if maxYear > 0 {
		query += " AND pub_year <= ?"
		args = append(args, maxYear)
	}
	query += " ORDER BY pub_year, id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, rows.Err()
}

// Count returns the number of indexed publications.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(s scanner) (*Summary, error) {
	var sum Summary
	var doi, eid, dblpKey, url sql.NullString
	var year sql.NullInt64

	err := s.Scan(&sum.ID, &doi, &eid, &dblpKey, &sum.Title,
		&year, &sum.ReferenceCount, &sum.CitationCount, &url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	sum.DOI = doi.String
	sum.EID = eid.String
	sum.DBLPKey = dblpKey.String
	sum.URL = url.String
	if year.Valid {
		sum.Year = int(year.Int64)
	}
	return &sum, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
