package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/repositories"
	"github.com/desertthunder/songle/internal/shared"
	"github.com/desertthunder/songle/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) cacheRepo() (*repositories.CatalogCacheRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewCatalogCacheRepository(db, time.Duration(r.config.Catalog.CacheTTLMinutes)*time.Minute), nil
}

// CacheStats prints catalog cache counts.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.cacheRepo()
	if err != nil {
		return err
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("Entries: %d\nTracks:  %d\nExpired: %d\n", stats.Entries, stats.Tracks, stats.Expired)
}

// CacheClear removes every cached entry.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.cacheRepo()
	if err != nil {
		return err
	}

	n, err := repo.Clear(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("catalog cache cleared", "entries", n)
	return r.writePlain("✓ Removed %d cached entries\n", n)
}

// CachePrune removes expired entries.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.cacheRepo()
	if err != nil {
		return err
	}

	n, err := repo.Prune(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Pruned %d expired entries\n", n)
}

// CacheWarm fetches every source argument through the cache-backed fetcher.
func (r *Runner) CacheWarm(ctx context.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		return fmt.Errorf("%w: at least one source is required", shared.ErrMissingArgument)
	}

	kind, err := models.ParseKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	rps := cmd.Float("rate")
	if rps <= 0 {
		rps = r.config.Catalog.RequestsPerSecond
	}

	fetcher, err := r.fetcher(ctx)
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if asJSON || update.Phase == tasks.FetchSource {
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()

	r.logger.Info("warming catalog cache", "kind", kind, "sources", len(inputs))
	result, err := tasks.NewWarmer(fetcher, r.logger).Warm(ctx, progressCh, inputs, tasks.WarmOpts{
		Kind:       kind,
		NumWorkers: cmd.Int("workers"),
		RateLimit:  rps,
	})
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	if asJSON {
		if werr := r.writeJSON(result, false); werr != nil {
			return werr
		}
		return err
	}

	r.writePlain("\nWarmed %d/%d sources (%d failed)\n", result.Succeeded, result.Total, result.Failed)
	return err
}
