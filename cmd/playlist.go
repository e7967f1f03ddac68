package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kaset/kaset/internal/formatter"
	"github.com/kaset/kaset/internal/shared"
	"github.com/kaset/kaset/internal/tasks"
)

// PlaylistList prints all playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.library.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlainln("no playlists yet, create one with 'kaset playlist create'")
	}
	for i, playlist := range playlists {
		r.writePlainln("%d. %s (%s)", i+1, playlist.Name, playlist.ID)
	}
	return nil
}

// PlaylistCreate creates a playlist with the given name.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	playlist, err := r.library.CreatePlaylist(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	r.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
	r.writePlainln("✓ Created '%s' (%s)", playlist.Name, playlist.ID)
	return nil
}

// PlaylistDelete removes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	message, err := r.library.DeletePlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	r.writePlainln("✓ %s", message)
	return nil
}

// PlaylistExport writes playlists with their songs to CSV, Markdown, JSON or
// plain text. With --all, every playlist is exported concurrently into a
// directory with a manifest.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	format := strings.ToLower(cmd.String("format"))
	output := cmd.String("output")

	if cmd.Bool("all") {
		return r.exportAll(ctx, format, output)
	}
	if id == "" {
		return fmt.Errorf("%w: --id or --all", shared.ErrMissingArgument)
	}

	playlists, err := r.library.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	export := &formatter.Export{}
	for _, playlist := range playlists {
		if playlist.ID == id {
			export.Playlist = playlist
			break
		}
	}
	if export.Playlist.ID == "" {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	if export.Songs, err = r.library.ListSongs(ctx, id); err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Exported %s and %s", result.SongsFile, result.MetadataFile)
	case "markdown", "md":
		data, err := formatter.ExportToMarkdown(export)
		if err != nil {
			return err
		}
		if output == "" {
			return r.writePlain("%s", data)
		}
		if err := writeFile(output, data); err != nil {
			return err
		}
		r.writePlainln("✓ Exported %s", output)
	case "text", "txt":
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Exported %s", path)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, format)
	}
	return nil
}

// exportAll dumps every playlist through the bulk exporter, streaming progress
// lines as they arrive.
func (r *Runner) exportAll(ctx context.Context, format, outputDir string) error {
	exporter := tasks.NewExporter(r.library, r.logger)

	prog := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlainln("%s", update.Message)
		}
	}()

	result, err := exporter.BulkExport(ctx, prog, nil, tasks.BulkExportOpts{
		Format:    format,
		OutputDir: outputDir,
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("✓ Exported %d/%d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlainln("%d failed, see %s", result.FailedExports, result.ManifestPath)
	}
	return nil
}
