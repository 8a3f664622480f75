// package models defines the data model for the song guessing game
package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the type of catalog resource a reference points to.
type Kind int

const (
	KindPlaylist Kind = iota
	KindAlbum
	KindArtist
	KindTrack
)

var kindNames = map[Kind]string{
	KindPlaylist: "playlist",
	KindAlbum:    "album",
	KindArtist:   "artist",
	KindTrack:    "track",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds returns every supported kind in display order.
func Kinds() []Kind {
	return []Kind{KindPlaylist, KindAlbum, KindArtist, KindTrack}
}

// ParseKind maps a user supplied source name ("playlist", "Album", ...) to a [Kind].
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown source kind %q", s)
}

// CatalogReference is a validated pointer into the music catalog.
//
// Value is a canonical 22 character ID, except when ByName is set (artists only), in which case it is a display name.
type CatalogReference struct {
	Kind   Kind
	Value  string
	ByName bool
}

func (r CatalogReference) String() string {
	if r.ByName {
		return fmt.Sprintf("%s name %q", r.Kind, r.Value)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Value)
}

// Track is a normalized candidate answer. CatalogID may be empty.
type Track struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	CatalogID string `json:"catalog_id,omitempty"`
}

// Artist is a catalog artist candidate returned by a name search.
type Artist struct {
	ID         string
	Name       string
	Popularity int
}

// State is a [GameSession] lifecycle state.
type State int

const (
	StateActive State = iota
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// GameSession is one player's game in progress.
type GameSession struct {
	ID               string
	OwnerID          string
	Answer           Track
	Source           CatalogReference
	MaxGuesses       int
	GuessesRemaining int
	History          []string
	State            State
	StartedAt        time.Time
}

// WrongGuesses is the number of incorrect guesses submitted so far.
func (s GameSession) WrongGuesses() int {
	return s.MaxGuesses - s.GuessesRemaining
}

// Clone returns a copy that shares no mutable state with s.
func (s GameSession) Clone() GameSession {
	s.History = append([]string(nil), s.History...)
	return s
}

// OutcomeKind enumerates the results of submitting a guess.
type OutcomeKind int

const (
	OutcomeNoActiveSession OutcomeKind = iota
	OutcomeCorrect
	OutcomeWrongContinue
	OutcomeExhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCorrect:
		return "correct"
	case OutcomeWrongContinue:
		return "wrong"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "no_active_session"
	}
}

// GuessOutcome reports a state machine transition.
//
// Answer is only set for Correct and Exhausted. History holds every guess of the session, oldest first.
type GuessOutcome struct {
	Kind             OutcomeKind
	SessionID        string
	Artist           string // answer artist, set for every outcome except NoActiveSession
	Answer           Track
	GuessesUsed      int
	GuessesRemaining int
	MaxGuesses       int
	History          []string
	Clue             string
}

// Reveal is returned when a player ends their session early.
type Reveal struct {
	SessionID   string
	Answer      Track
	GuessesUsed int
}

// ResultKind is how a recorded game finished.
type ResultKind string

const (
	ResultWon   ResultKind = "won"
	ResultLost  ResultKind = "lost"
	ResultEnded ResultKind = "ended"
)

// GameResult is a finished game as recorded for stats.
type GameResult struct {
	ID          string
	SessionID   string
	OwnerID     string
	Outcome     ResultKind
	Answer      Track
	GuessesUsed int
	MaxGuesses  int
	Source      CatalogReference
	StartedAt   time.Time
	FinishedAt  time.Time
}

// PlayerStats aggregates results for one player.
type PlayerStats struct {
	OwnerID     string
	Played      int
	Won         int
	Lost        int
	Abandoned   int
	BestGuesses int
}

// WinRate returns the share of played games that were won, in [0, 1].
func (p PlayerStats) WinRate() float64 {
	if p.Played == 0 {
		return 0
	}
	return float64(p.Won) / float64(p.Played)
}
