package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
)

// catalogIDPrefix marks songs materialized from catalog search results.
const catalogIDPrefix = "catalog-"

// IngestOutcome reports a successful ingestion. Playlist carries the
// server's post-mutation snapshot when the backend returned one.
type IngestOutcome struct {
	Message  string
	Playlist *services.Playlist
}

// Ingestor validates and tags candidate tracks, rejects duplicates against
// the current song view, and submits accepted tracks to the backend.
type Ingestor struct {
	svc    *services.LibraryService
	logger *log.Logger
}

func NewIngestor(svc *services.LibraryService, logger *log.Logger) *Ingestor {
	return &Ingestor{svc: svc, logger: logger}
}

// Normalize fills in origin tags for candidates that arrive without them.
// Untagged candidates whose id carries the catalog prefix are attributed to
// the catalog with the prefix stripped; everything else is local. Candidates
// without a playable URL are rejected before any tagging.
func Normalize(candidate services.Song) (services.Song, error) {
	if strings.TrimSpace(candidate.Title) == "" {
		return services.Song{}, fmt.Errorf("%w: missing title", shared.ErrInvalidIngestion)
	}
	if !candidate.Playable() {
		return services.Song{}, fmt.Errorf("%w: %q has no playable url", shared.ErrInvalidIngestion, candidate.Title)
	}

	if candidate.Source == "" || candidate.OriginalID == "" {
		if strings.HasPrefix(candidate.ID, catalogIDPrefix) {
			candidate.Source = services.SourceCatalog
			candidate.OriginalID = strings.TrimPrefix(candidate.ID, catalogIDPrefix)
		} else {
			candidate.Source = services.SourceLocal
			candidate.OriginalID = candidate.ID
		}
	}
	return candidate, nil
}

// DuplicateOf reports the first existing song the candidate duplicates.
// When both carry origin tags the (source, original id) pair decides;
// otherwise the exact (title, artist, url) triple does.
func DuplicateOf(candidate services.Song, existing []services.Song) (services.Song, bool) {
	for _, song := range existing {
		if tagged(song) && tagged(candidate) {
			if song.Source == candidate.Source && song.OriginalID == candidate.OriginalID {
				return song, true
			}
			continue
		}
		if song.Title == candidate.Title && song.Artist == candidate.Artist && song.URL == candidate.URL {
			return song, true
		}
	}
	return services.Song{}, false
}

func tagged(s services.Song) bool {
	return s.Source != "" && s.OriginalID != ""
}

// Ingest normalizes the candidate, checks it against the current song view
// and submits it to the target playlist. Duplicates are rejected locally
// without a network call.
func (in *Ingestor) Ingest(ctx context.Context, target *services.Playlist, current []services.Song, candidate services.Song) (*IngestOutcome, error) {
	if target == nil || target.ID == "" {
		return nil, fmt.Errorf("%w: no playlist selected", shared.ErrInvalidIngestion)
	}

	song, err := Normalize(candidate)
	if err != nil {
		return nil, err
	}

	if dup, ok := DuplicateOf(song, current); ok {
		return nil, fmt.Errorf("%w: %q is already in %q", shared.ErrDuplicateTrack, dup.Title, target.Name)
	}

	result, err := in.svc.AddSong(ctx, target.ID, song)
	if err != nil {
		return nil, err
	}

	if in.logger != nil {
		in.logger.Info("song added", "title", song.Title, "playlist", target.Name, "source", song.Source)
	}

	message := result.Message
	if message == "" {
		message = fmt.Sprintf("added %q to %q", song.Title, target.Name)
	}
	return &IngestOutcome{Message: message, Playlist: result.Playlist}, nil
}
