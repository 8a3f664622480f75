// Package tasks runs long catalog operations in the background with real-time progress reporting.
//
// # Cache Warming
//
// [Warmer.Warm] resolves a batch of user inputs into catalog references and fetches each pool
// through a [services.TrackFetcher]. When the fetcher is the cache-backed one built by the CLI,
// a successful fetch leaves the pool in the catalog cache so the first round of a game started
// from that source does not wait on the catalog.
//
// Fetches run on a bounded worker pool behind a token bucket limiter ([golang.org/x/time/rate])
// so a large batch stays inside the catalog's request quota. One failing input never aborts the
// batch; every input gets a [WarmItemResult].
//
// # Progress Reporting
//
// Progress is reported on an optional channel of [ProgressUpdate]. Sends use select with default,
// so a slow or absent reader never stalls the workers.
package tasks
