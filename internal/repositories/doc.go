// Package repositories implements SQLite persistence for catalog caching and finished games.
//
// Live game sessions are never stored here; they exist only in memory.
//
// Key Implementations:
//   - [CatalogCacheRepository] : read-through cache of fetched track pools, keyed by catalog reference, with a TTL
//   - [ResultRepository] : finished game records with per-player stats and a leaderboard
//
// Sequence numbers provide stable, human-readable ordering (e.g., result #42) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
