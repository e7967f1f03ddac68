package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/kaset/kaset/internal/library"
	"github.com/kaset/kaset/internal/player"
	"github.com/kaset/kaset/internal/repositories"
	"github.com/kaset/kaset/internal/shared"
	"github.com/kaset/kaset/internal/ui"
)

// TUI launches the interactive player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return fmt.Errorf("%w: run 'kaset auth login' first", shared.ErrNotAuthenticated)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/kaset-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	sink := player.NewMPV(player.MPVOptions{
		Path:           r.config.Player.MPVPath,
		IPCPath:        r.config.Player.IPCPath,
		DisableProcess: cmd.Bool("no-mpv"),
		Logger:         r.logger,
	})
	if err := sink.Start(ctx); err != nil {
		return fmt.Errorf("failed to start media sink: %w", err)
	}
	defer sink.Stop()

	// History recording is best effort; the player works without the
	// cache database.
	var history *repositories.HistoryRepository
	if db, err := r.openDatabase(); err != nil {
		r.logger.Warn("playback history unavailable", "error", err)
	} else {
		defer db.Close()
		history = repositories.NewHistoryRepository(db)
	}

	store := library.NewStore(r.library, r.logger)
	sync := library.NewSynchronizer(r.library, r.logger)
	ingestor := library.NewIngestor(r.library, r.logger)
	transport := player.NewTransport(sink, r.logger)

	model := ui.NewModel(ctx, store, sync, ingestor, r.catalog, transport, sink, history)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
