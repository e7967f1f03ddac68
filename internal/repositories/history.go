package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kaset/kaset/internal/models"
	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
)

// HistoryRepository records which songs were played and when.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record appends a playback entry for the song.
func (r *HistoryRepository) Record(song services.Song) error {
	record := &models.PlayRecord{
		SongID:   song.ID,
		Title:    song.Title,
		Artist:   song.Artist,
		Source:   song.Source,
		PlayedAt: time.Now(),
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO history (id, sequence, song_id, title, artist, source, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, shared.GenerateID(), sequence, record.SongID, record.Title, record.Artist, record.Source, record.PlayedAt)
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

// Recent retrieves the most recent playback entries, newest first. A limit
// of zero or less returns everything.
func (r *HistoryRepository) Recent(limit int) ([]*models.PlayRecord, error) {
	query := `
		SELECT id, sequence, song_id, title, artist, source, played_at
		FROM history
		ORDER BY sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*models.PlayRecord
	for rows.Next() {
		var record models.PlayRecord
		if err := rows.Scan(&record.ID, &record.Sequence, &record.SongID, &record.Title, &record.Artist, &record.Source, &record.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

// Clear removes all playback history.
func (r *HistoryRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
