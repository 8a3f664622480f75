// Spotify implementation of [Catalog]
//
// Endpoint reference: https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const defaultMarket = "US"

// SpotifyOpts configures a [SpotifyCatalog].
type SpotifyOpts struct {
	ClientID          string
	ClientSecret      string
	Market            string  // ISO 3166-1 alpha-2 code used for top tracks and availability
	RequestsPerSecond float64 // zero disables pacing
	BaseURL           string  // overrides the Web API base URL, mainly for tests
	HTTPClient        *http.Client
}

// SpotifyCatalog implements [Catalog] on the Spotify Web API.
type SpotifyCatalog struct {
	client  *spotify.Client
	limiter *rate.Limiter
	market  string
}

// NewSpotifyCatalog creates a catalog client.
//
// Without an explicit HTTPClient the client credentials grant is used, which requires ClientID and ClientSecret.
// The context is used for token refreshes for the lifetime of the client.
func NewSpotifyCatalog(ctx context.Context, opts SpotifyOpts) (*SpotifyCatalog, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		if opts.ClientID == "" || opts.ClientSecret == "" {
			return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
		}
		config := &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     spotifyauth.TokenURL,
		}
		httpClient = config.Client(ctx)
	}

	var clientOpts []spotify.ClientOption
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		clientOpts = append(clientOpts, spotify.WithBaseURL(base))
	}

	market := opts.Market
	if market == "" {
		market = defaultMarket
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := max(1, int(opts.RequestsPerSecond))
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &SpotifyCatalog{
		client:  spotify.New(httpClient, clientOpts...),
		limiter: limiter,
		market:  market,
	}, nil
}

func (c *SpotifyCatalog) Name() string {
	return "Spotify"
}

// wait blocks until the limiter admits another request.
func (c *SpotifyCatalog) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// PlaylistTracks pages through a playlist's items, skipping local files and podcast episodes.
func (c *SpotifyCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	page, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Market(c.market))
	if err != nil {
		return nil, c.wrap("get playlist items", err)
	}

	var tracks []models.Track
	for {
		for _, item := range page.Items {
			if item.IsLocal || item.Track.Track == nil {
				continue
			}
			tracks = append(tracks, fromFullTrack(*item.Track.Track))
		}

		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		err = c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, c.wrap("playlist pagination", err)
		}
	}

	return tracks, nil
}

// AlbumTracks pages through an album's track listing.
func (c *SpotifyCatalog) AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	page, err := c.client.GetAlbumTracks(ctx, spotify.ID(albumID), spotify.Market(c.market))
	if err != nil {
		return nil, c.wrap("get album tracks", err)
	}

	var tracks []models.Track
	for {
		for _, st := range page.Tracks {
			tracks = append(tracks, fromSimpleTrack(st))
		}

		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		err = c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, c.wrap("album pagination", err)
		}
	}

	return tracks, nil
}

// Track retrieves a single track by ID.
func (c *SpotifyCatalog) Track(ctx context.Context, trackID string) (models.Track, error) {
	if err := c.wait(ctx); err != nil {
		return models.Track{}, err
	}

	ft, err := c.client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return models.Track{}, c.wrap("get track", err)
	}
	return fromFullTrack(*ft), nil
}

// SearchArtists runs an artist search and returns up to limit candidates.
func (c *SpotifyCatalog) SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.client.Search(ctx, name, spotify.SearchTypeArtist, spotify.Limit(limit))
	if err != nil {
		return nil, c.wrap("search artists", err)
	}
	if res.Artists == nil {
		return nil, nil
	}

	artists := make([]models.Artist, 0, len(res.Artists.Artists))
	for _, a := range res.Artists.Artists {
		artists = append(artists, models.Artist{
			ID:         string(a.ID),
			Name:       a.Name,
			Popularity: int(a.Popularity),
		})
	}
	return artists, nil
}

// ArtistTopTracks returns the artist's top tracks in the configured market.
func (c *SpotifyCatalog) ArtistTopTracks(ctx context.Context, artistID string) ([]models.Track, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.client.GetArtistsTopTracks(ctx, spotify.ID(artistID), c.market)
	if err != nil {
		return nil, c.wrap("get artist top tracks", err)
	}

	tracks := make([]models.Track, 0, len(res))
	for _, ft := range res {
		tracks = append(tracks, fromFullTrack(ft))
	}
	return tracks, nil
}

// wrap annotates err with op and marks missing, malformed or inaccessible IDs as [shared.ErrResourceNotFound].
func (c *SpotifyCatalog) wrap(op string, err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound, http.StatusBadRequest, http.StatusForbidden:
			return fmt.Errorf("%s: %w", op, shared.ErrResourceNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func fromFullTrack(ft spotify.FullTrack) models.Track {
	return fromSimpleTrack(ft.SimpleTrack)
}

func fromSimpleTrack(st spotify.SimpleTrack) models.Track {
	artists := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}

	return models.Track{
		Title:     st.Name,
		Artist:    strings.Join(artists, ", "),
		CatalogID: string(st.ID),
	}
}
