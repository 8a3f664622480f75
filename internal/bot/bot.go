// package bot parses chat commands and answers them with embeds
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songle/internal/formatter"
	"github.com/desertthunder/songle/internal/game"
	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

// Command names.
const (
	CmdStart  = "start"
	CmdGuess  = "guess"
	CmdEnd    = "end"
	CmdStatus = "status"
	CmdStats  = "stats"
	CmdHelp   = "help"
)

// Command is one player request, as received from a chat gateway or typed in the console.
type Command struct {
	Name     string `json:"name"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Input    string `json:"input,omitempty"`
	Guess    string `json:"guess,omitempty"`
}

// ParseLine parses slash-command text such as "/start playlist <link>" or "/guess <title>".
//
// Text without a leading slash is treated as a guess.
func ParseLine(userID, line string) (Command, error) {
	line = strings.TrimSpace(line)
	cmd := Command{UserID: userID}

	if !strings.HasPrefix(line, "/") {
		cmd.Name = CmdGuess
		cmd.Guess = line
		return cmd, nil
	}

	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	cmd.Name = strings.ToLower(name)

	switch cmd.Name {
	case CmdStart:
		kind, input, _ := strings.Cut(rest, " ")
		if kind == "" {
			return Command{}, fmt.Errorf("%w: /start needs a source kind", shared.ErrInvalidInputFormat)
		}
		cmd.Kind = strings.ToLower(kind)
		cmd.Input = strings.TrimSpace(input)
	case CmdGuess:
		cmd.Guess = rest
	case CmdEnd, CmdStatus, CmdStats, CmdHelp:
	default:
		return Command{}, fmt.Errorf("%w: unknown command %q", shared.ErrInvalidInputFormat, name)
	}

	return cmd, nil
}

// StatsReader reads aggregated player records.
type StatsReader interface {
	PlayerStats(ctx context.Context, ownerID string) (models.PlayerStats, error)
}

// Opts contains the dependencies of a [Bot].
type Opts struct {
	Engine  *game.Engine
	Stats   StatsReader
	Builder *formatter.Builder
	Logger  *log.Logger
}

// Bot answers commands for any number of players.
type Bot struct {
	engine  *game.Engine
	stats   StatsReader
	builder *formatter.Builder
	logger  *log.Logger
}

// New creates a Bot.
func New(opts Opts) *Bot {
	if opts.Engine == nil {
		opts.Engine = game.NewEngine(game.EngineOpts{Logger: opts.Logger})
	}
	if opts.Builder == nil {
		opts.Builder = formatter.NewBuilder(formatter.DefaultHistoryLimit)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Bot{
		engine:  opts.Engine,
		stats:   opts.Stats,
		builder: opts.Builder,
		logger:  shared.WithLogger(opts.Logger, "component", "bot"),
	}
}

// Engine returns the game engine the bot drives.
func (b *Bot) Engine() *game.Engine {
	return b.engine
}

// HandleLine parses line and handles it for userID.
func (b *Bot) HandleLine(ctx context.Context, userID, line string) formatter.Embed {
	cmd, err := ParseLine(userID, line)
	if err != nil {
		return b.fail(cmd, err)
	}
	return b.Handle(ctx, cmd)
}

// Handle runs cmd and returns the reply.
func (b *Bot) Handle(ctx context.Context, cmd Command) formatter.Embed {
	if strings.TrimSpace(cmd.UserID) == "" {
		return b.fail(cmd, fmt.Errorf("%w: command has no user", shared.ErrInvalidInputFormat))
	}

	switch strings.ToLower(cmd.Name) {
	case CmdStart:
		return b.start(ctx, cmd)
	case CmdGuess:
		return b.guess(ctx, cmd)
	case CmdEnd:
		reveal, err := b.engine.End(ctx, cmd.UserID)
		if err != nil {
			return b.fail(cmd, err)
		}
		return b.builder.Ended(reveal)
	case CmdStatus:
		s, err := b.engine.Session(cmd.UserID)
		if err != nil {
			return b.fail(cmd, err)
		}
		return b.builder.Status(s, b.engine.Clue(s))
	case CmdStats:
		return b.playerStats(ctx, cmd)
	case CmdHelp:
		return b.builder.Help()
	default:
		return b.fail(cmd, fmt.Errorf("%w: unknown command %q", shared.ErrInvalidInputFormat, cmd.Name))
	}
}

func (b *Bot) start(ctx context.Context, cmd Command) formatter.Embed {
	kind, err := models.ParseKind(cmd.Kind)
	if err != nil {
		return b.fail(cmd, fmt.Errorf("%w: %v", shared.ErrInvalidInputFormat, err))
	}

	s, err := b.engine.Start(ctx, cmd.UserID, kind, cmd.Input)
	if err != nil {
		return b.fail(cmd, err)
	}
	return b.builder.Started(s, b.engine.Clue(s))
}

func (b *Bot) guess(ctx context.Context, cmd Command) formatter.Embed {
	if strings.TrimSpace(cmd.Guess) == "" {
		return b.fail(cmd, game.ErrBlankGuess)
	}

	outcome := b.engine.SubmitGuess(ctx, cmd.UserID, strings.TrimSpace(cmd.Guess))
	if outcome.Kind == models.OutcomeNoActiveSession {
		return b.fail(cmd, shared.ErrNoActiveSession)
	}
	return b.builder.Outcome(outcome)
}

func (b *Bot) playerStats(ctx context.Context, cmd Command) formatter.Embed {
	name := cmd.UserName
	if name == "" {
		name = cmd.UserID
	}
	if b.stats == nil {
		return b.builder.Stats(name, models.PlayerStats{OwnerID: cmd.UserID})
	}

	stats, err := b.stats.PlayerStats(ctx, cmd.UserID)
	if err != nil {
		return b.fail(cmd, err)
	}
	return b.builder.Stats(name, stats)
}

// fail logs err and renders it for the player.
func (b *Bot) fail(cmd Command, err error) formatter.Embed {
	if kind := shared.Classify(err); kind == nil || kind == shared.ErrUpstreamService {
		b.logger.Error("command failed", "command", cmd.Name, "user", cmd.UserID, "error", err)
	} else {
		b.logger.Debug("command rejected", "command", cmd.Name, "user", cmd.UserID, "error", err)
	}
	return b.builder.Error(err)
}
