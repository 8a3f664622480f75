package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

const (
	killersID         = "0C0XlULifJtAgn6ZNCW2eu"
	privatePlaylistID = "privatePlaylistXXXXXXX"
)

func newSpotifyTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
	notFound := `{"error":{"status":404,"message":"Resource not found"}}`

	playlistItems := func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == privatePlaylistID {
			writeJSON(w, http.StatusForbidden, `{"error":{"status":403,"message":"Forbidden"}}`)
			return
		}
		if r.PathValue("id") != playlistID {
			writeJSON(w, http.StatusNotFound, notFound)
			return
		}
		writeJSON(w, http.StatusOK, `{
			"items": [
				{"is_local": false, "track": {"type": "track", "id": "7pKfPomDEeI4TPT6EOYjn9", "name": "Imagine", "artists": [{"name": "John Lennon"}]}},
				{"is_local": true, "track": {"type": "track", "id": "", "name": "Home Recording", "artists": []}},
				{"is_local": false, "track": {"type": "track", "id": "0aym2LBJBk9DAYuHHutrIl", "name": "Hey Jude", "artists": [{"name": "The Beatles"}]}}
			],
			"total": 3,
			"next": null
		}`)
	}
	mux.HandleFunc("GET /playlists/{id}/tracks", playlistItems)
	mux.HandleFunc("GET /playlists/{id}/items", playlistItems)

	mux.HandleFunc("GET /albums/{id}/tracks", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case albumID:
			writeJSON(w, http.StatusOK, `{
				"items": [
					{"id": "2Foc5Q5nqNiosCNqttzHof", "name": "Get Lucky", "artists": [{"name": "Daft Punk"}, {"name": "Pharrell Williams"}]}
				],
				"total": 1,
				"next": null
			}`)
		case "brokenAlbumXXXXXXXXXXX":
			writeJSON(w, http.StatusInternalServerError, `{"error":{"status":500,"message":"Server error"}}`)
		default:
			writeJSON(w, http.StatusNotFound, notFound)
		}
	})

	mux.HandleFunc("GET /artists/{id}/top-tracks", func(w http.ResponseWriter, r *http.Request) {
		if id := r.PathValue("id"); id != artistID && id != killersID {
			writeJSON(w, http.StatusBadRequest, `{"error":{"status":400,"message":"invalid id"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"tracks": [
			{"id": "3n3Ppam7vgaVa1iaRUc9Lp", "name": "Mr. Brightside", "artists": [{"name": "The Killers"}]}
		]}`)
	})

	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"artists": {"items": [
			{"id": "`+killersID+`", "name": "The Killers", "popularity": 80},
			{"id": "1dfeR4HaWDbWqFHLkxsg1d", "name": "Queen", "popularity": 85}
		], "total": 2, "next": null}}`)
	})

	mux.HandleFunc("GET /tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != trackID {
			writeJSON(w, http.StatusNotFound, notFound)
			return
		}
		writeJSON(w, http.StatusOK, `{"id": "7pKfPomDEeI4TPT6EOYjn9", "name": "Imagine", "artists": [{"name": "John Lennon"}]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSpotifyCatalog(t *testing.T) *SpotifyCatalog {
	t.Helper()
	srv := newSpotifyTestServer(t)

	catalog, err := NewSpotifyCatalog(context.Background(), SpotifyOpts{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	return catalog
}

func TestSpotifyCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("NewSpotifyCatalog", func(t *testing.T) {
		t.Run("Missing Credentials", func(t *testing.T) {
			_, err := NewSpotifyCatalog(ctx, SpotifyOpts{ClientID: "only_id"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("With Credentials", func(t *testing.T) {
			catalog, err := NewSpotifyCatalog(ctx, SpotifyOpts{
				ClientID:          "test_client_id",
				ClientSecret:      "test_client_secret",
				RequestsPerSecond: 2,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if catalog.Name() != "Spotify" {
				t.Errorf("expected catalog name 'Spotify', got %s", catalog.Name())
			}
			if catalog.market != defaultMarket {
				t.Errorf("expected default market, got %s", catalog.market)
			}
			if catalog.limiter == nil {
				t.Error("expected a limiter when requests per second is set")
			}
		})
	})

	t.Run("PlaylistTracks skips local files", func(t *testing.T) {
		tracks, err := newTestSpotifyCatalog(t).PlaylistTracks(ctx, playlistID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d: %+v", len(tracks), tracks)
		}
		if tracks[0].Title != "Imagine" || tracks[0].Artist != "John Lennon" || tracks[0].CatalogID != trackID {
			t.Errorf("unexpected first track: %+v", tracks[0])
		}
	})

	t.Run("AlbumTracks joins artists", func(t *testing.T) {
		tracks, err := newTestSpotifyCatalog(t).AlbumTracks(ctx, albumID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 || tracks[0].Artist != "Daft Punk, Pharrell Williams" {
			t.Errorf("unexpected tracks: %+v", tracks)
		}
	})

	t.Run("Track", func(t *testing.T) {
		track, err := newTestSpotifyCatalog(t).Track(ctx, trackID)
		if err != nil || track.Title != "Imagine" {
			t.Errorf("unexpected result: %+v, %v", track, err)
		}
	})

	t.Run("SearchArtists", func(t *testing.T) {
		artists, err := newTestSpotifyCatalog(t).SearchArtists(ctx, "the killers", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(artists) != 2 || artists[0].Name != "The Killers" || artists[0].Popularity != 80 {
			t.Errorf("unexpected artists: %+v", artists)
		}
	})

	t.Run("ArtistTopTracks", func(t *testing.T) {
		tracks, err := newTestSpotifyCatalog(t).ArtistTopTracks(ctx, artistID)
		if err != nil || len(tracks) != 1 || tracks[0].Title != "Mr. Brightside" {
			t.Errorf("unexpected result: %+v, %v", tracks, err)
		}
	})

	t.Run("Error mapping", func(t *testing.T) {
		catalog := newTestSpotifyCatalog(t)

		if _, err := catalog.PlaylistTracks(ctx, "missingPlaylistXXXXXXX"); !errors.Is(err, shared.ErrResourceNotFound) {
			t.Errorf("404 should map to ErrResourceNotFound, got %v", err)
		}
		if _, err := catalog.ArtistTopTracks(ctx, "badArtistXXXXXXXXXXXXX"); !errors.Is(err, shared.ErrResourceNotFound) {
			t.Errorf("400 should map to ErrResourceNotFound, got %v", err)
		}
		if _, err := catalog.PlaylistTracks(ctx, privatePlaylistID); !errors.Is(err, shared.ErrResourceNotFound) {
			t.Errorf("403 should map to ErrResourceNotFound, got %v", err)
		}

		_, err := NewFetcher(FetcherOpts{Catalog: catalog}).Fetch(ctx, models.CatalogReference{Kind: models.KindPlaylist, Value: privatePlaylistID})
		if !errors.Is(err, shared.ErrResourceNotFound) || errors.Is(err, shared.ErrUpstreamService) {
			t.Errorf("inaccessible playlist should be not-found, got %v", err)
		}

		_, err = catalog.AlbumTracks(ctx, "brokenAlbumXXXXXXXXXXX")
		if err == nil || errors.Is(err, shared.ErrResourceNotFound) {
			t.Errorf("500 should not be not-found, got %v", err)
		}
	})

	t.Run("Fetcher over Spotify normalizes server errors", func(t *testing.T) {
		f := newTestFetcher(newTestSpotifyCatalog(t), nil)

		_, err := f.Fetch(ctx, models.CatalogReference{Kind: models.KindAlbum, Value: "brokenAlbumXXXXXXXXXXX"})
		if !errors.Is(err, shared.ErrUpstreamService) {
			t.Errorf("expected ErrUpstreamService, got %v", err)
		}

		tracks, err := f.Fetch(ctx, models.CatalogReference{Kind: models.KindArtist, Value: "the killers", ByName: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 || tracks[0].Artist != "The Killers" {
			t.Errorf("unexpected tracks: %+v", tracks)
		}
	})
}
