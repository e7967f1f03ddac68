package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kaset/kaset/internal/repositories"
)

// HistoryList prints the most recently played songs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repositories.NewHistoryRepository(db).Recent(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	if len(records) == 0 {
		return r.writePlainln("no playback history yet")
	}
	for i, record := range records {
		r.writePlainln("%d. %s - %s (%s) %s", i+1, record.Artist, record.Title, record.Source, record.PlayedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// HistoryClear deletes all playback history.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewHistoryRepository(db).Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	r.writePlainln("✓ Playback history cleared")
	return nil
}
