package resolver

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

const (
	playlistID = "37i9dQZF1DXcBWIGoYBM5M"
	albumID    = "4aawyAB9vmqN3uQ7FjRGTy"
	artistID   = "0oSGxfWSnnOXhD2fKuz2Gy"
	trackID    = "7GhIk7Il098yCjg4BQjzvb"
)

func TestResolve(t *testing.T) {
	t.Run("URL and bare ID are equivalent", func(t *testing.T) {
		ids := map[models.Kind]string{
			models.KindPlaylist: playlistID,
			models.KindAlbum:    albumID,
			models.KindArtist:   artistID,
			models.KindTrack:    trackID,
		}

		for kind, id := range ids {
			bare, err := Resolve(id, kind)
			if err != nil {
				t.Fatalf("%s bare id: unexpected error %v", kind, err)
			}

			for _, form := range []string{URLFor(kind, id), URIFor(kind, id)} {
				got, err := Resolve(form, kind)
				if err != nil {
					t.Fatalf("%s %q: unexpected error %v", kind, form, err)
				}
				if got != bare {
					t.Errorf("%s: Resolve(%q) = %+v, want %+v", kind, form, got, bare)
				}
			}
		}
	})

	t.Run("URL variants", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
			kind  models.Kind
		}{
			{name: "query string", input: "https://open.spotify.com/playlist/" + playlistID + "?si=abc123", kind: models.KindPlaylist},
			{name: "http scheme", input: "http://open.spotify.com/album/" + albumID, kind: models.KindAlbum},
			{name: "no scheme", input: "open.spotify.com/track/" + trackID, kind: models.KindTrack},
			{name: "intl prefix", input: "https://open.spotify.com/intl-de/track/" + trackID, kind: models.KindTrack},
			{name: "embed prefix", input: "https://open.spotify.com/embed/playlist/" + playlistID, kind: models.KindPlaylist},
			{name: "play host", input: "https://play.spotify.com/album/" + albumID, kind: models.KindAlbum},
			{name: "surrounding whitespace", input: "  https://open.spotify.com/artist/" + artistID + "  ", kind: models.KindArtist},
			{name: "artist subpage", input: "https://open.spotify.com/artist/" + artistID + "/discography/all", kind: models.KindArtist},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				ref, err := Resolve(tt.input, tt.kind)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ref.Kind != tt.kind || !IsCanonicalID(ref.Value) || ref.ByName {
					t.Errorf("unexpected reference: %+v", ref)
				}
			})
		}
	})

	t.Run("Artist names", func(t *testing.T) {
		tc := []struct {
			input string
			want  string
		}{
			{input: "Radiohead", want: "Radiohead"},
			{input: "  AC/DC ", want: "AC/DC"},
			{input: "Sigur Rós", want: "Sigur Rós"},
			{input: strings.Repeat("a", 100), want: strings.Repeat("a", 100)},
		}

		for _, tt := range tc {
			ref, err := Resolve(tt.input, models.KindArtist)
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.input, err)
			}
			if !ref.ByName || ref.Value != tt.want {
				t.Errorf("Resolve(%q) = %+v, want name %q", tt.input, ref, tt.want)
			}
		}
	})

	t.Run("Invalid input", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
			kind  models.Kind
		}{
			{name: "empty", input: "", kind: models.KindPlaylist},
			{name: "whitespace", input: "   ", kind: models.KindArtist},
			{name: "plain words for playlist", input: "my favourite songs", kind: models.KindPlaylist},
			{name: "short id", input: "37i9dQZF1DXcBWIGoYBM5", kind: models.KindAlbum},
			{name: "long id", input: playlistID + "x", kind: models.KindTrack},
			{name: "non alphanumeric id", input: "37i9dQZF1DXcBWIGoYBM5-", kind: models.KindTrack},
			{name: "wrong kind in URL", input: URLFor(models.KindAlbum, albumID), kind: models.KindPlaylist},
			{name: "wrong kind in URI", input: URIFor(models.KindTrack, trackID), kind: models.KindArtist},
			{name: "foreign host", input: "https://example.com/playlist/" + playlistID, kind: models.KindPlaylist},
			{name: "foreign host for artist", input: "https://example.com/artist/radiohead", kind: models.KindArtist},
			{name: "bad id in URL", input: "https://open.spotify.com/track/notanid", kind: models.KindTrack},
			{name: "truncated URI", input: "spotify:track", kind: models.KindTrack},
			{name: "artist name too long", input: strings.Repeat("a", 101), kind: models.KindArtist},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Resolve(tt.input, tt.kind)
				if !errors.Is(err, shared.ErrInvalidInputFormat) {
					t.Fatalf("expected ErrInvalidInputFormat, got %v", err)
				}

				var invalid *InvalidInputError
				if !errors.As(err, &invalid) {
					t.Fatalf("expected *InvalidInputError, got %T", err)
				}
				if invalid.Expected != tt.kind {
					t.Errorf("expected kind %v in error, got %v", tt.kind, invalid.Expected)
				}
			})
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, errA := Resolve("Radiohead", models.KindArtist)
		b, errB := Resolve("Radiohead", models.KindArtist)
		if a != b || errA != nil || errB != nil {
			t.Errorf("expected identical results, got %+v/%v and %+v/%v", a, errA, b, errB)
		}
	})
}
