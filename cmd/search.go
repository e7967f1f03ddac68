package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/kaset/kaset/internal/repositories"
	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
)

// searchCacheTTL bounds how long cached catalog results are served before a
// fresh fetch.
const searchCacheTTL = 24 * time.Hour

// Search queries the public catalog for tracks. Results are cached in the
// local database and reused for repeat queries unless --refresh is given.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	term := cmd.StringArg("query")
	if term == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	var repo *repositories.SearchRepository
	if db, err := r.openDatabase(); err != nil {
		r.logger.Warn("search cache unavailable", "error", err)
	} else {
		defer db.Close()
		repo = repositories.NewSearchRepository(db)
	}

	if repo != nil && !cmd.Bool("refresh") {
		cached, err := repo.Get(term)
		if err != nil {
			r.logger.Warn("search cache lookup failed", "error", err)
		} else if cached != nil && cached.Age() < searchCacheTTL {
			var tracks []services.CatalogTrack
			if err := json.Unmarshal(cached.Results, &tracks); err == nil {
				r.logger.Debug("serving cached search", "term", term, "age", cached.Age())
				return r.printTracks(cmd, tracks)
			}
			r.logger.Warn("discarding corrupt cache entry", "term", term)
		}
	}

	tracks, err := r.catalog.Search(ctx, term)
	if err != nil {
		return fmt.Errorf("catalog search failed: %w", err)
	}

	if repo != nil {
		if raw, err := json.Marshal(tracks); err == nil {
			if err := repo.Put(term, raw); err != nil {
				r.logger.Warn("failed to cache search results", "error", err)
			}
		}
	}

	return r.printTracks(cmd, tracks)
}

func (r *Runner) printTracks(cmd *cli.Command, tracks []services.CatalogTrack) error {
	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	if len(tracks) == 0 {
		return r.writePlainln("no results")
	}
	for i, track := range tracks {
		marker := ""
		if !track.Playable() {
			marker = " [unplayable]"
		}
		r.writePlainln("%d. %s - %s (%s)%s", i+1, track.ArtistName, track.Name, track.ID, marker)
	}
	return nil
}
