package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaset/kaset/internal/models"
	"github.com/kaset/kaset/internal/shared"
)

// SearchRepository caches catalog search results keyed by term.
//
// Each term has at most one row; repeating a search overwrites the cached
// results and refreshes the fetch timestamp.
type SearchRepository struct {
	db *sql.DB
}

// NewSearchRepository creates a new SearchRepository with the given database connection
func NewSearchRepository(db *sql.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Put stores the results for a term, replacing any previous entry.
func (r *SearchRepository) Put(term string, results json.RawMessage) error {
	entry := &models.CachedSearch{
		Term:      term,
		Results:   results,
		FetchedAt: time.Now(),
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "searches")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO searches (id, sequence, term, results, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(term) DO UPDATE SET results = excluded.results, fetched_at = excluded.fetched_at
	`
	_, err = r.db.Exec(query, shared.GenerateID(), sequence, entry.Term, string(entry.Results), entry.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to cache search: %w", err)
	}
	return nil
}

// Get retrieves the cached entry for a term. A cache miss returns nil
// without an error; freshness is the caller's call.
func (r *SearchRepository) Get(term string) (*models.CachedSearch, error) {
	query := `
		SELECT id, sequence, term, results, fetched_at
		FROM searches
		WHERE term = ?
	`

	var (
		entry   models.CachedSearch
		results string
	)
	err := r.db.QueryRow(query, term).Scan(&entry.ID, &entry.Sequence, &entry.Term, &results, &entry.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan search: %w", err)
	}
	entry.Results = json.RawMessage(results)
	return &entry, nil
}

// List retrieves all cached searches in insertion order.
func (r *SearchRepository) List() ([]*models.CachedSearch, error) {
	query := `
		SELECT id, sequence, term, results, fetched_at
		FROM searches
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var entries []*models.CachedSearch
	for rows.Next() {
		var (
			entry   models.CachedSearch
			results string
		)
		if err := rows.Scan(&entry.ID, &entry.Sequence, &entry.Term, &results, &entry.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		entry.Results = json.RawMessage(results)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Purge drops cached searches fetched before the cutoff and returns how
// many rows were removed.
func (r *SearchRepository) Purge(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := r.db.Exec("DELETE FROM searches WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge searches: %w", err)
	}
	return result.RowsAffected()
}
