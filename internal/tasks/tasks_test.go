package tasks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/resolver"
	"github.com/desertthunder/songle/internal/shared"
	tu "github.com/desertthunder/songle/internal/testing"
)

const (
	playlistID   = "37i9dQZF1DXcBWIGoYBM5M"
	playlistLink = "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc"
)

func fastOpts(kind models.Kind) WarmOpts {
	return WarmOpts{Kind: kind, NumWorkers: 3, RateLimit: 1000}
}

func TestWarm(t *testing.T) {
	tracks := []models.Track{{Title: "Imagine", Artist: "John Lennon"}, {Title: "Yesterday", Artist: "The Beatles"}}

	t.Run("fails without a fetcher", func(t *testing.T) {
		_, err := NewWarmer(nil, nil).Warm(context.Background(), nil, []string{playlistID}, fastOpts(models.KindPlaylist))
		if !errors.Is(err, shared.ErrUpstreamService) {
			t.Errorf("expected ErrUpstreamService, got %v", err)
		}
	})

	t.Run("fails without inputs", func(t *testing.T) {
		_, err := NewWarmer(&tu.MockFetcher{}, nil).Warm(context.Background(), nil, nil, fastOpts(models.KindPlaylist))
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	tests := []struct {
		name          string
		kind          models.Kind
		inputs        []string
		fetchErr      error
		wantSucceeded int
		wantFailed    int
		wantFetches   int
	}{
		{
			name:          "all inputs fetched",
			kind:          models.KindPlaylist,
			inputs:        []string{playlistID, playlistLink, "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M"},
			wantSucceeded: 3,
			wantFetches:   3,
		},
		{
			name:          "unresolvable input does not abort the batch",
			kind:          models.KindPlaylist,
			inputs:        []string{playlistID, "not a playlist", "https://open.spotify.com/album/37i9dQZF1DXcBWIGoYBM5M"},
			wantSucceeded: 1,
			wantFailed:    2,
			wantFetches:   1,
		},
		{
			name:          "artist names resolve by name",
			kind:          models.KindArtist,
			inputs:        []string{"Radiohead", "Daft Punk"},
			wantSucceeded: 2,
			wantFetches:   2,
		},
		{
			name:        "fetch errors are reported per input",
			kind:        models.KindAlbum,
			inputs:      []string{playlistID, playlistID},
			fetchErr:    shared.ErrResourceNotFound,
			wantFailed:  2,
			wantFetches: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &tu.MockFetcher{Tracks: tracks, Err: tt.fetchErr}
			result, err := NewWarmer(fetcher, nil).Warm(context.Background(), nil, tt.inputs, fastOpts(tt.kind))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Total != len(tt.inputs) {
				t.Errorf("expected total %d, got %d", len(tt.inputs), result.Total)
			}
			if result.Succeeded != tt.wantSucceeded {
				t.Errorf("expected %d succeeded, got %d", tt.wantSucceeded, result.Succeeded)
			}
			if result.Failed != tt.wantFailed {
				t.Errorf("expected %d failed, got %d", tt.wantFailed, result.Failed)
			}
			if len(result.Results) != len(tt.inputs) {
				t.Errorf("expected %d results, got %d", len(tt.inputs), len(result.Results))
			}
			if got := len(fetcher.Refs()); got != tt.wantFetches {
				t.Errorf("expected %d fetches, got %d", tt.wantFetches, got)
			}

			for _, ref := range fetcher.Refs() {
				if ref.Kind != tt.kind {
					t.Errorf("expected fetch of kind %s, got %s", tt.kind, ref.Kind)
				}
			}

			for _, res := range result.Results {
				if res.Success() && res.Tracks != len(tracks) {
					t.Errorf("%s: expected %d tracks, got %d", res.Input, len(tracks), res.Tracks)
				}
				if tt.fetchErr != nil && !errors.Is(res.Error, tt.fetchErr) {
					t.Errorf("%s: expected %v, got %v", res.Input, tt.fetchErr, res.Error)
				}
			}
		})
	}

	t.Run("resolution failures carry the input error", func(t *testing.T) {
		result, err := NewWarmer(&tu.MockFetcher{Tracks: tracks}, nil).
			Warm(context.Background(), nil, []string{"   "}, fastOpts(models.KindTrack))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var inputErr *resolver.InvalidInputError
		if len(result.Results) != 1 || !errors.As(result.Results[0].Error, &inputErr) {
			t.Fatalf("expected InvalidInputError, got %+v", result.Results)
		}
		if inputErr.Expected != models.KindTrack {
			t.Errorf("expected kind track, got %s", inputErr.Expected)
		}
	})

	t.Run("cancelled context fails remaining sources", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fetcher := &tu.MockFetcher{Tracks: tracks}
		result, err := NewWarmer(fetcher, nil).Warm(ctx, nil, []string{playlistID, playlistID}, fastOpts(models.KindPlaylist))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.Failed != 2 {
			t.Fatalf("expected 2 failures, got %+v", result)
		}
		if len(fetcher.Refs()) != 0 {
			t.Errorf("expected no fetches, got %d", len(fetcher.Refs()))
		}
	})
}

func TestWarmProgress(t *testing.T) {
	prog := make(chan ProgressUpdate, 32)
	fetcher := &tu.MockFetcher{Tracks: []models.Track{{Title: "Imagine", Artist: "John Lennon"}}}

	_, err := NewWarmer(fetcher, nil).Warm(context.Background(), prog, []string{playlistID, "bogus"}, fastOpts(models.KindPlaylist))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(prog)

	var updates []ProgressUpdate
	for u := range prog {
		updates = append(updates, u)
	}

	if len(updates) == 0 || updates[0].Phase != Resolve {
		t.Fatalf("expected first update in resolve phase, got %+v", updates)
	}

	phases := map[Phase]int{}
	for _, u := range updates {
		phases[u.Phase]++
	}
	if phases[FetchSource] != 1 {
		t.Errorf("expected 1 fetch update, got %d", phases[FetchSource])
	}
	if phases[Cached] != 2 {
		t.Errorf("expected 2 completion updates, got %d", phases[Cached])
	}

	last := updates[len(updates)-1]
	if last.Step != 2 || last.Total != 2 {
		t.Errorf("expected final step 2/2, got %d/%d", last.Step, last.Total)
	}

	var sawFailure bool
	for _, u := range updates {
		if u.Phase == Cached && strings.Contains(u.Message, "✗ bogus") {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Error("expected a failure update for the bad input")
	}
}

func TestWarmerLogger(t *testing.T) {
	t.Run("nil logger gets a default", func(t *testing.T) {
		if NewWarmer(&tu.MockFetcher{}, nil).logger == nil {
			t.Fatal("expected a logger")
		}
	})

	t.Run("failures are tagged with the component", func(t *testing.T) {
		var buf bytes.Buffer
		logger := shared.NewLogger(&buf)
		shared.SetLogLevel(logger, log.DebugLevel)

		_, err := NewWarmer(&tu.MockFetcher{}, logger).Warm(context.Background(), nil, []string{"bogus"}, fastOpts(models.KindPlaylist))
		tu.MustNoError(t, err)

		if !strings.Contains(buf.String(), "component=warmer") {
			t.Errorf("expected component field, got %q", buf.String())
		}
	})
}

func TestSendProgressDoesNotBlock(t *testing.T) {
	w := NewWarmer(&tu.MockFetcher{}, nil)
	full := make(chan ProgressUpdate)

	w.sendProgress(full, ProgressUpdate{Phase: Resolve})
	w.sendProgress(nil, ProgressUpdate{Phase: Resolve})
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		Resolve:     "resolve",
		FetchSource: "fetch_source",
		Cached:      "cached",
		Phase(99):   "",
	}
	for phase, want := range tests {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
