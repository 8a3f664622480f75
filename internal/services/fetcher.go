package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

const (
	// UnknownField replaces a missing title or artist.
	UnknownField = "Unknown"

	artistSearchLimit = 10

	// minArtistSimilarity is the Jaro-Winkler score a candidate needs to outrank search order.
	minArtistSimilarity = 0.8
)

// FetcherOpts contains the dependencies of a [Fetcher]. Only Catalog is required for fetching to succeed.
type FetcherOpts struct {
	Catalog Catalog
	Cache   TrackCacher
	Logger  *log.Logger
}

// Fetcher implements [TrackFetcher] over a [Catalog].
type Fetcher struct {
	catalog Catalog
	cache   TrackCacher
	logger  *log.Logger
}

// NewFetcher creates a Fetcher. A nil Catalog is allowed; every fetch then fails with [shared.ErrUpstreamService].
func NewFetcher(opts FetcherOpts) *Fetcher {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Fetcher{
		catalog: opts.Catalog,
		cache:   opts.Cache,
		logger:  shared.WithLogger(opts.Logger, "component", "fetcher"),
	}
}

// Fetch retrieves the normalized candidate pool for ref.
func (f *Fetcher) Fetch(ctx context.Context, ref models.CatalogReference) ([]models.Track, error) {
	if f.catalog == nil {
		return nil, fmt.Errorf("%w: no catalog client configured", shared.ErrUpstreamService)
	}

	if tracks, ok := f.cached(ctx, ref); ok {
		return tracks, nil
	}

	raw, err := f.fetchRaw(ctx, ref)
	if err != nil {
		return nil, f.classify(ref, err)
	}

	tracks := NormalizeTracks(raw)
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%s: %w", ref, shared.ErrEmptyResource)
	}

	if f.cache != nil {
		if err := f.cache.CacheTracks(ctx, ref, tracks); err != nil {
			f.logger.Warn("failed to cache tracks", "ref", ref.String(), "error", err)
		}
	}

	f.logger.Debug("fetched candidate pool", "ref", ref.String(), "tracks", len(tracks))
	return tracks, nil
}

func (f *Fetcher) cached(ctx context.Context, ref models.CatalogReference) ([]models.Track, bool) {
	if f.cache == nil {
		return nil, false
	}

	tracks, ok, err := f.cache.CachedTracks(ctx, ref)
	if err != nil {
		f.logger.Warn("cache lookup failed", "ref", ref.String(), "error", err)
		return nil, false
	}
	if !ok || len(tracks) == 0 {
		return nil, false
	}
	return tracks, true
}

func (f *Fetcher) fetchRaw(ctx context.Context, ref models.CatalogReference) ([]models.Track, error) {
	switch ref.Kind {
	case models.KindPlaylist:
		return f.catalog.PlaylistTracks(ctx, ref.Value)
	case models.KindAlbum:
		return f.catalog.AlbumTracks(ctx, ref.Value)
	case models.KindTrack:
		t, err := f.catalog.Track(ctx, ref.Value)
		if err != nil {
			return nil, err
		}
		return []models.Track{t}, nil
	case models.KindArtist:
		artistID := ref.Value
		if ref.ByName {
			artist, err := f.resolveArtist(ctx, ref.Value)
			if err != nil {
				return nil, err
			}
			f.logger.Debug("resolved artist name", "name", ref.Value, "artist", artist.Name, "id", artist.ID)
			artistID = artist.ID
		}
		return f.catalog.ArtistTopTracks(ctx, artistID)
	default:
		return nil, fmt.Errorf("unsupported reference kind %v", ref.Kind)
	}
}

func (f *Fetcher) resolveArtist(ctx context.Context, name string) (models.Artist, error) {
	candidates, err := f.catalog.SearchArtists(ctx, name, artistSearchLimit)
	if err != nil {
		return models.Artist{}, err
	}

	best, ok := BestArtistMatch(name, candidates)
	if !ok {
		return models.Artist{}, fmt.Errorf("no artist matches %q: %w", name, shared.ErrResourceNotFound)
	}
	return best, nil
}

// classify narrows a catalog error to a player facing kind. Not-found passes through, everything else is an upstream failure.
func (f *Fetcher) classify(ref models.CatalogReference, err error) error {
	if errors.Is(err, shared.ErrResourceNotFound) {
		return fmt.Errorf("%s: %w", ref, shared.ErrResourceNotFound)
	}

	f.logger.Error("catalog request failed", "catalog", f.catalog.Name(), "ref", ref.String(), "error", err)
	return fmt.Errorf("%w: %s: %v", shared.ErrUpstreamService, ref, err)
}

// BestArtistMatch picks the single candidate that best matches name.
//
// Names are compared without a leading "the". An exact match wins outright; otherwise the highest
// Jaro-Winkler score at or above [minArtistSimilarity] wins, with ties going to the earlier candidate.
// When nothing scores high enough the first candidate with an ID is returned, since search results
// arrive in relevance order. ok is false only when no candidate has an ID.
func BestArtistMatch(name string, candidates []models.Artist) (models.Artist, bool) {
	target := artistKey(name)
	if target == "" {
		return models.Artist{}, false
	}

	var (
		first    models.Artist
		hasFirst bool
	)
	for _, c := range candidates {
		if c.ID == "" {
			continue
		}
		if !hasFirst {
			first, hasFirst = c, true
		}
		if artistKey(c.Name) == target {
			return c, true
		}
	}
	if !hasFirst {
		return models.Artist{}, false
	}

	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = false

	var (
		best      models.Artist
		bestScore float64
	)
	for _, c := range candidates {
		if c.ID == "" {
			continue
		}
		score := strutil.Similarity(target, artistKey(c.Name), jw)
		if score >= minArtistSimilarity && score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore == 0 {
		return first, true
	}
	return best, true
}

func artistKey(name string) string {
	return strings.TrimPrefix(shared.NormalizeText(name), "the ")
}

// NormalizeTracks drops tracks with no identity at all and fills a missing title or artist with [UnknownField].
func NormalizeTracks(tracks []models.Track) []models.Track {
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		t.Title = strings.TrimSpace(t.Title)
		t.Artist = strings.TrimSpace(t.Artist)
		t.CatalogID = strings.TrimSpace(t.CatalogID)

		if t.Title == "" && t.Artist == "" && t.CatalogID == "" {
			continue
		}
		if t.Title == "" {
			t.Title = UnknownField
		}
		if t.Artist == "" {
			t.Artist = UnknownField
		}
		out = append(out, t)
	}
	return out
}
