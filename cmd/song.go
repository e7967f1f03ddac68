package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kaset/kaset/internal/library"
	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
)

// SongList prints the songs of a playlist.
func (r *Runner) SongList(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")

	songs, err := r.library.ListSongs(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlainln("playlist is empty")
	}
	for i, song := range songs {
		marker := ""
		if !song.Playable() {
			marker = " [unplayable]"
		}
		r.writePlainln("%d. %s - %s (%s)%s", i+1, song.Artist, song.Title, song.ID, marker)
	}
	return nil
}

// SongAdd adds a song to a playlist, either by catalog track id or from
// manual metadata flags. Duplicates are rejected before hitting the backend.
func (r *Runner) SongAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")

	target, err := r.findPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	candidate, err := r.resolveCandidate(ctx, cmd)
	if err != nil {
		return err
	}

	current, err := r.library.ListSongs(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	ingestor := library.NewIngestor(r.library, r.logger)
	outcome, err := ingestor.Ingest(ctx, target, current, candidate)
	if err != nil {
		return err
	}

	r.writePlainln("✓ %s", outcome.Message)
	return nil
}

// SongRemove removes a song from a playlist.
func (r *Runner) SongRemove(ctx context.Context, cmd *cli.Command) error {
	result, err := r.library.RemoveSong(ctx, cmd.String("playlist"), cmd.String("song"))
	if err != nil {
		return fmt.Errorf("failed to remove song: %w", err)
	}

	message := result.Message
	if message == "" {
		message = "song removed"
	}
	r.writePlainln("✓ %s", message)
	return nil
}

// findPlaylist resolves a playlist id against the backend's playlist list.
func (r *Runner) findPlaylist(ctx context.Context, id string) (*services.Playlist, error) {
	playlists, err := r.library.ListPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	for i := range playlists {
		if playlists[i].ID == id {
			return &playlists[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
}

// resolveCandidate builds the song to add. A catalog id takes precedence and
// is looked up through search; otherwise the manual metadata flags are used.
func (r *Runner) resolveCandidate(ctx context.Context, cmd *cli.Command) (services.Song, error) {
	if catalogID := cmd.String("catalog-id"); catalogID != "" {
		title := cmd.String("title")
		if title == "" {
			return services.Song{}, fmt.Errorf("%w: --title is needed to look up a catalog track", shared.ErrMissingArgument)
		}
		tracks, err := r.catalog.Search(ctx, title)
		if err != nil {
			return services.Song{}, fmt.Errorf("catalog search failed: %w", err)
		}
		for _, track := range tracks {
			if track.ID == catalogID {
				return track.Song(), nil
			}
		}
		return services.Song{}, fmt.Errorf("%w: catalog track %s", shared.ErrSongNotFound, catalogID)
	}

	title, artist, url := cmd.String("title"), cmd.String("artist"), cmd.String("url")
	if title == "" || url == "" {
		return services.Song{}, fmt.Errorf("%w: --title and --url (or --catalog-id)", shared.ErrMissingArgument)
	}
	return services.Song{
		Title:  title,
		Artist: artist,
		URL:    url,
		Album:  cmd.String("album"),
	}, nil
}
