// Package services adapts external music catalogs into pools of candidate answers.
//
// # Catalog Interface
//
// A [Catalog] is a thin, provider specific read client. It returns [models.Track] values and
// wraps [shared.ErrResourceNotFound] when the provider says a resource does not exist. Everything
// else (transport failures, rate limiting, malformed responses) is returned as is.
//
// # Spotify Implementation
//
// [SpotifyCatalog] wraps the zmb3/spotify client. It authenticates with the client credentials
// grant ([clientcredentials.Config]), so no user login is needed, and paces requests with a
// [rate.Limiter].
//
// # Fetcher
//
// [Fetcher] is what the game talks to. It dispatches a [models.CatalogReference] to the right
// catalog call, resolves artist names to a single best match with Jaro-Winkler similarity,
// normalizes tracks and narrows every failure to one of:
//   - [shared.ErrResourceNotFound] : the playlist, album, track or artist does not exist
//   - [shared.ErrEmptyResource] : it exists but has no usable tracks
//   - [shared.ErrUpstreamService] : anything else, including a missing catalog client
//
// An optional [TrackCacher] short-circuits repeat fetches of the same reference.
package services
