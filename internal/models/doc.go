// Package models defines the value types shared by the resolver, catalog fetcher, game engine and presentation layers.
//
//   - [Kind] and [CatalogReference] : a validated pointer to a playlist, album, artist or track
//   - [Track] : a normalized candidate answer
//   - [GameSession] and [State] : one player's game in progress
//   - [GuessOutcome] and [Reveal] : what the state machine reports back after a guess or an early end
//   - [GameResult] : a finished game as recorded for stats
package models
