// Package game implements the per-player session store and the guess state machine.
//
// # Session Store
//
// [Store] holds at most one [models.GameSession] per owner. Each session lives in its own entry
// with its own mutex, so read-modify-write sequences on one owner are serialized while different
// owners never contend. [Store.TryStart] inserts atomically: of two concurrent starts for the same
// owner exactly one succeeds.
//
// # State Machine
//
//	Active --correct guess-----------> Won  (removed)
//	Active --wrong, budget left------> Active
//	Active --wrong, budget exhausted-> Lost (removed)
//	Active --End---------------------> removed
//
// Correctness is checked before the budget, so a correct last guess wins. Guesses are compared
// after lower-casing and trimming; there is no fuzzy matching.
//
// # Engine
//
// [Engine] ties the resolver, a [services.TrackFetcher] and the store together. Catalog I/O happens
// before the session is inserted and never under a store lock. Finished games are handed to an
// optional [ResultRecorder].
package game
