// package services defines interface Catalog for reading tracks from a music catalog
package services

import (
	"context"

	"github.com/desertthunder/songle/internal/models"
)

// Catalog defines read access to a music catalog.
type Catalog interface {
	// PlaylistTracks returns every track in a playlist, in playlist order.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// AlbumTracks returns every track on an album.
	AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error)

	// Track returns a single track.
	Track(ctx context.Context, trackID string) (models.Track, error)

	// SearchArtists returns artists matching name, most relevant first.
	SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error)

	// ArtistTopTracks returns an artist's most popular tracks.
	ArtistTopTracks(ctx context.Context, artistID string) ([]models.Track, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// TrackCacher stores fetched candidate pools keyed by reference.
type TrackCacher interface {
	// CachedTracks returns a stored pool and whether a fresh entry existed.
	CachedTracks(ctx context.Context, ref models.CatalogReference) ([]models.Track, bool, error)

	// CacheTracks stores a pool, replacing any previous entry for ref.
	CacheTracks(ctx context.Context, ref models.CatalogReference, tracks []models.Track) error
}

// TrackFetcher turns a reference into a candidate pool. Implemented by [Fetcher].
type TrackFetcher interface {
	Fetch(ctx context.Context, ref models.CatalogReference) ([]models.Track, error)
}
