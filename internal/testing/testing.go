// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

// MockCatalog is a test double for [services.Catalog] backed by in-memory maps.
//
// Unknown IDs return [shared.ErrResourceNotFound]. Err, when set, is returned by every call.
type MockCatalog struct {
	Playlists map[string][]models.Track
	Albums    map[string][]models.Track
	Tracks    map[string]models.Track
	Artists   []models.Artist
	TopTracks map[string][]models.Track
	Err       error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockCatalog) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
	return m.Err
}

// Calls returns how many times method was invoked.
func (m *MockCatalog) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if err := m.record("PlaylistTracks"); err != nil {
		return nil, err
	}
	tracks, ok := m.Playlists[playlistID]
	if !ok {
		return nil, shared.ErrResourceNotFound
	}
	return tracks, nil
}

func (m *MockCatalog) AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	if err := m.record("AlbumTracks"); err != nil {
		return nil, err
	}
	tracks, ok := m.Albums[albumID]
	if !ok {
		return nil, shared.ErrResourceNotFound
	}
	return tracks, nil
}

func (m *MockCatalog) Track(ctx context.Context, trackID string) (models.Track, error) {
	if err := m.record("Track"); err != nil {
		return models.Track{}, err
	}
	t, ok := m.Tracks[trackID]
	if !ok {
		return models.Track{}, shared.ErrResourceNotFound
	}
	return t, nil
}

func (m *MockCatalog) SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error) {
	if err := m.record("SearchArtists"); err != nil {
		return nil, err
	}
	if limit > 0 && len(m.Artists) > limit {
		return m.Artists[:limit], nil
	}
	return m.Artists, nil
}

func (m *MockCatalog) ArtistTopTracks(ctx context.Context, artistID string) ([]models.Track, error) {
	if err := m.record("ArtistTopTracks"); err != nil {
		return nil, err
	}
	tracks, ok := m.TopTracks[artistID]
	if !ok {
		return nil, shared.ErrResourceNotFound
	}
	return tracks, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// MockFetcher is a test double for [services.TrackFetcher] that returns fixed results.
//
// Block, when non-nil, is waited on before returning so tests can hold a fetch in flight.
type MockFetcher struct {
	Tracks []models.Track
	Err    error
	Block  <-chan struct{}

	mu   sync.Mutex
	refs []models.CatalogReference
}

func (m *MockFetcher) Fetch(ctx context.Context, ref models.CatalogReference) ([]models.Track, error) {
	m.mu.Lock()
	m.refs = append(m.refs, ref)
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tracks, nil
}

// Refs returns every reference passed to Fetch, in call order.
func (m *MockFetcher) Refs() []models.CatalogReference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CatalogReference(nil), m.refs...)
}

// MemoryResults is a test double for game.ResultRecorder and game.StatsReader.
type MemoryResults struct {
	Err error

	mu      sync.Mutex
	results []models.GameResult
}

func (m *MemoryResults) RecordResult(ctx context.Context, result models.GameResult) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
	return nil
}

// Results returns a copy of all recorded results.
func (m *MemoryResults) Results() []models.GameResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.GameResult(nil), m.results...)
}

func (m *MemoryResults) PlayerStats(ctx context.Context, ownerID string) (models.PlayerStats, error) {
	if m.Err != nil {
		return models.PlayerStats{}, m.Err
	}
	stats := models.PlayerStats{OwnerID: ownerID}
	for _, r := range m.Results() {
		if r.OwnerID != ownerID {
			continue
		}
		stats.Played++
		switch r.Outcome {
		case models.ResultWon:
			stats.Won++
			if stats.BestGuesses == 0 || r.GuessesUsed < stats.BestGuesses {
				stats.BestGuesses = r.GuessesUsed
			}
		case models.ResultLost:
			stats.Lost++
		case models.ResultEnded:
			stats.Abandoned++
		}
	}
	return stats, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// SampleTracks returns n distinct tracks titled "Song 1".."Song n".
func SampleTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		tracks[i] = models.Track{
			Title:  fmt.Sprintf("Song %d", i+1),
			Artist: "Artist",
		}
	}
	return tracks
}

// MustNoError fails the test immediately when err is not nil.
func MustNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
