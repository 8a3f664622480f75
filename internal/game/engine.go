package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/resolver"
	"github.com/desertthunder/songle/internal/services"
	"github.com/desertthunder/songle/internal/shared"
)

// DefaultMaxGuesses is the guess budget used when none is configured.
const DefaultMaxGuesses = 3

// ErrBlankGuess is returned for guesses that are empty after trimming. They never count against the budget.
var ErrBlankGuess = fmt.Errorf("%w: guess is blank", shared.ErrInvalidInputFormat)

// ResultRecorder persists finished games.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result models.GameResult) error
}

// EngineOpts contains the dependencies of an [Engine].
type EngineOpts struct {
	Store      *Store
	Fetcher    services.TrackFetcher
	Results    ResultRecorder
	Logger     *log.Logger
	MaxGuesses int
	Pick       func(n int) int // returns an index in [0, n); defaults to a uniform random pick
}

// Engine runs games on behalf of players.
type Engine struct {
	store      *Store
	fetcher    services.TrackFetcher
	results    ResultRecorder
	logger     *log.Logger
	maxGuesses int
	pick       func(n int) int
	now        func() time.Time
}

// NewEngine creates an Engine, filling in defaults for optional dependencies.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Store == nil {
		opts.Store = NewStore()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.MaxGuesses < 1 {
		opts.MaxGuesses = DefaultMaxGuesses
	}
	if opts.Pick == nil {
		opts.Pick = rand.IntN
	}

	return &Engine{
		store:      opts.Store,
		fetcher:    opts.Fetcher,
		results:    opts.Results,
		logger:     shared.WithLogger(opts.Logger, "component", "game"),
		maxGuesses: opts.MaxGuesses,
		pick:       opts.Pick,
		now:        time.Now,
	}
}

// Store returns the engine's session store.
func (e *Engine) Store() *Store {
	return e.store
}

// MaxGuesses returns the guess budget given to new sessions.
func (e *Engine) MaxGuesses() int {
	return e.maxGuesses
}

// Start resolves input, fetches its tracks, picks an answer and opens a session for owner.
func (e *Engine) Start(ctx context.Context, ownerID string, kind models.Kind, input string) (models.GameSession, error) {
	// Cheap pre-check so a player with a running game doesn't cost a catalog round trip.
	// TryStart below is still the authority.
	if _, err := e.store.Get(ownerID); err == nil {
		return models.GameSession{}, shared.ErrSessionActive
	}

	ref, err := resolver.Resolve(input, kind)
	if err != nil {
		return models.GameSession{}, err
	}

	if e.fetcher == nil {
		return models.GameSession{}, shared.ErrUpstreamService
	}
	tracks, err := e.fetcher.Fetch(ctx, ref)
	if err != nil {
		return models.GameSession{}, err
	}
	if len(tracks) == 0 {
		return models.GameSession{}, shared.ErrEmptyResource
	}

	answer := tracks[e.pick(len(tracks))]
	session, err := e.store.start(ownerID, answer, ref, e.maxGuesses)
	if err != nil {
		return models.GameSession{}, err
	}

	e.logger.Info("game started", "owner", ownerID, "session", session.ID, "source", ref.String(), "pool", len(tracks))
	return session, nil
}

// Session returns a snapshot of owner's active session.
func (e *Engine) Session(ownerID string) (models.GameSession, error) {
	return e.store.Get(ownerID)
}

// Clue returns the masked title for a session's current progress.
func (e *Engine) Clue(session models.GameSession) string {
	return Clue(session.Answer.Title, revealedLetters(session.WrongGuesses()))
}

// SubmitGuess evaluates guess against owner's session and applies the resulting transition.
func (e *Engine) SubmitGuess(ctx context.Context, ownerID, guess string) models.GuessOutcome {
	var (
		outcome  models.GuessOutcome
		finished *models.GameSession
	)

	err := e.store.withSession(ownerID, func(en *entry) {
		s := &en.session
		s.History = append(s.History, guess)

		if Matches(guess, s.Answer.Title) {
			s.State = models.StateWon
		} else {
			s.GuessesRemaining--
			if s.GuessesRemaining <= 0 {
				s.GuessesRemaining = 0
				s.State = models.StateLost
			}
		}

		outcome = models.GuessOutcome{
			SessionID:        s.ID,
			Artist:           s.Answer.Artist,
			GuessesUsed:      len(s.History),
			GuessesRemaining: s.GuessesRemaining,
			MaxGuesses:       s.MaxGuesses,
			History:          append([]string(nil), s.History...),
		}

		switch s.State {
		case models.StateWon:
			outcome.Kind = models.OutcomeCorrect
			outcome.Answer = s.Answer
		case models.StateLost:
			outcome.Kind = models.OutcomeExhausted
			outcome.Answer = s.Answer
		default:
			outcome.Kind = models.OutcomeWrongContinue
			outcome.Clue = e.Clue(*s)
		}

		if s.State.Terminal() {
			e.store.close(en)
			done := s.Clone()
			finished = &done
		}
	})
	if errors.Is(err, shared.ErrNoActiveSession) {
		return models.GuessOutcome{Kind: models.OutcomeNoActiveSession}
	}

	if finished != nil {
		kind := models.ResultWon
		if finished.State == models.StateLost {
			kind = models.ResultLost
		}
		e.record(ctx, *finished, kind)
	}

	e.logger.Debug("guess evaluated", "owner", ownerID, "outcome", outcome.Kind.String(), "remaining", outcome.GuessesRemaining)
	return outcome
}

// End stops owner's session early and reveals the answer.
func (e *Engine) End(ctx context.Context, ownerID string) (models.Reveal, error) {
	var ended models.GameSession
	err := e.store.withSession(ownerID, func(en *entry) {
		ended = en.session.Clone()
		e.store.close(en)
	})
	if err != nil {
		return models.Reveal{}, err
	}

	e.record(ctx, ended, models.ResultEnded)
	return models.Reveal{
		SessionID:   ended.ID,
		Answer:      ended.Answer,
		GuessesUsed: len(ended.History),
	}, nil
}

// record hands a finished session to the recorder. Failures are logged and never reach the player.
func (e *Engine) record(ctx context.Context, s models.GameSession, kind models.ResultKind) {
	e.logger.Info("game finished", "owner", s.OwnerID, "session", s.ID, "result", string(kind), "guesses", len(s.History))
	if e.results == nil {
		return
	}

	result := models.GameResult{
		ID:          shared.GenerateID(),
		SessionID:   s.ID,
		OwnerID:     s.OwnerID,
		Outcome:     kind,
		Answer:      s.Answer,
		GuessesUsed: len(s.History),
		MaxGuesses:  s.MaxGuesses,
		Source:      s.Source,
		StartedAt:   s.StartedAt,
		FinishedAt:  e.now(),
	}
	if err := e.results.RecordResult(ctx, result); err != nil {
		e.logger.Warn("failed to record result", "session", s.ID, "error", err)
	}
}

// Matches reports whether guess names title exactly, ignoring case and surrounding whitespace.
func Matches(guess, title string) bool {
	g := normalizeGuess(guess)
	return g != "" && g == normalizeGuess(title)
}

func normalizeGuess(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
