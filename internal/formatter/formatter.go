// package formatter builds the chat messages shown to players
package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/songle/internal/game"
	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/resolver"
	"github.com/desertthunder/songle/internal/shared"
)

// Embed colors, as 0xRRGGBB.
const (
	ColorSuccess = 0x2ECC71
	ColorGold    = 0xF1C40F
	ColorOrange  = 0xE67E22
	ColorFailure = 0xE74C3C
	ColorInfo    = 0x3498DB
)

// DefaultHistoryLimit is how many recent guesses an embed lists.
const DefaultHistoryLimit = 5

// Field is a titled section of an [Embed].
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is a chat message card.
type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields,omitempty"`
	Footer      string  `json:"footer,omitempty"`
}

// Hex returns the embed color as "#RRGGBB".
func (e Embed) Hex() string {
	return fmt.Sprintf("#%06X", e.Color)
}

// Builder turns game results into embeds.
type Builder struct {
	HistoryLimit int
}

// NewBuilder creates a Builder that lists at most historyLimit guesses. Non-positive values use [DefaultHistoryLimit].
func NewBuilder(historyLimit int) *Builder {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Builder{HistoryLimit: historyLimit}
}

// WarningColor blends from gold with the full budget left to orange on the last guess.
func WarningColor(remaining, max int) int {
	if max <= 1 || remaining <= 1 {
		return ColorOrange
	}
	if remaining >= max {
		return ColorGold
	}

	t := float64(max-remaining) / float64(max-1)
	blend := func(shift uint) int {
		from := (ColorGold >> shift) & 0xFF
		to := (ColorOrange >> shift) & 0xFF
		return int(float64(from)+(float64(to-from))*t+0.5) << shift
	}
	return blend(16) | blend(8) | blend(0)
}

func hint(clue, artist string) string {
	return fmt.Sprintf("`%s` by **%s**", clue, artist)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
	"|", `\|`,
	">", `\>`,
)

// escapeMarkdown backslash-escapes player text so it renders literally inside an embed.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func answerLine(t models.Track) string {
	line := fmt.Sprintf("**%s** by %s", t.Title, t.Artist)
	if t.CatalogID != "" {
		line += "\n" + resolver.URLFor(models.KindTrack, t.CatalogID)
	}
	return line
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	if strings.HasSuffix(word, "s") {
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// historyField lists the most recent guesses, numbered by their position in the full history.
func (b *Builder) historyField(history []string) (Field, bool) {
	if len(history) == 0 {
		return Field{}, false
	}

	start := max(len(history)-b.HistoryLimit, 0)
	lines := make([]string, 0, len(history)-start)
	for i := start; i < len(history); i++ {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, escapeMarkdown(history[i])))
	}
	return Field{Name: "Recent guesses", Value: strings.Join(lines, "\n")}, true
}

// Started announces a new game.
func (b *Builder) Started(s models.GameSession, clue string) Embed {
	return Embed{
		Title:       "New game",
		Description: fmt.Sprintf("Guess the song from the %s: %s", s.Source.Kind, hint(clue, s.Answer.Artist)),
		Color:       ColorGold,
		Fields: []Field{
			{Name: "Guesses", Value: plural(s.MaxGuesses, "guess"), Inline: true},
		},
		Footer: "Reply with /guess <title>",
	}
}

// Status shows a game in progress.
func (b *Builder) Status(s models.GameSession, clue string) Embed {
	e := Embed{
		Title:       "Game in progress",
		Description: hint(clue, s.Answer.Artist),
		Color:       WarningColor(s.GuessesRemaining, s.MaxGuesses),
		Fields: []Field{
			{Name: "Guesses left", Value: fmt.Sprintf("%d of %d", s.GuessesRemaining, s.MaxGuesses), Inline: true},
		},
	}
	if f, ok := b.historyField(s.History); ok {
		e.Fields = append(e.Fields, f)
	}
	return e
}

// Outcome renders the result of a guess.
func (b *Builder) Outcome(o models.GuessOutcome) Embed {
	var e Embed
	switch o.Kind {
	case models.OutcomeCorrect:
		e = Embed{
			Title:       "Correct!",
			Description: "You guessed the song: " + answerLine(o.Answer),
			Color:       ColorSuccess,
			Footer:      fmt.Sprintf("Solved in %s", plural(o.GuessesUsed, "guess")),
		}
	case models.OutcomeWrongContinue:
		e = Embed{
			Title:       "Wrong guess",
			Description: fmt.Sprintf("Not quite. Here's more of the title: %s", hint(o.Clue, o.Artist)),
			Color:       WarningColor(o.GuessesRemaining, o.MaxGuesses),
			Fields: []Field{
				{Name: "Guesses left", Value: fmt.Sprintf("%d of %d", o.GuessesRemaining, o.MaxGuesses), Inline: true},
			},
		}
	case models.OutcomeExhausted:
		e = Embed{
			Title:       "Game over",
			Description: "You used all your guesses. The answer was " + answerLine(o.Answer),
			Color:       ColorFailure,
			Footer:      "Start another round with /start",
		}
	default:
		return b.Error(shared.ErrNoActiveSession)
	}

	if f, ok := b.historyField(o.History); ok {
		e.Fields = append(e.Fields, f)
	}
	return e
}

// Ended reveals the answer of a game the player gave up on.
func (b *Builder) Ended(r models.Reveal) Embed {
	return Embed{
		Title:       "Game ended",
		Description: "The answer was " + answerLine(r.Answer),
		Color:       ColorFailure,
		Footer:      fmt.Sprintf("You made %s", plural(r.GuessesUsed, "guess")),
	}
}

// Stats summarizes one player's record.
func (b *Builder) Stats(name string, p models.PlayerStats) Embed {
	if p.Played == 0 {
		return Embed{
			Title:       "Stats for " + name,
			Description: "No finished games yet. Start one with /start.",
			Color:       ColorInfo,
		}
	}

	best := "-"
	if p.BestGuesses > 0 {
		best = plural(p.BestGuesses, "guess")
	}
	return Embed{
		Title: "Stats for " + name,
		Color: ColorInfo,
		Fields: []Field{
			{Name: "Played", Value: fmt.Sprint(p.Played), Inline: true},
			{Name: "Won", Value: fmt.Sprint(p.Won), Inline: true},
			{Name: "Lost", Value: fmt.Sprint(p.Lost), Inline: true},
			{Name: "Ended", Value: fmt.Sprint(p.Abandoned), Inline: true},
			{Name: "Win rate", Value: fmt.Sprintf("%.0f%%", p.WinRate()*100), Inline: true},
			{Name: "Best", Value: best, Inline: true},
		},
	}
}

// Leaderboard ranks players by wins.
func (b *Builder) Leaderboard(board []models.PlayerStats) Embed {
	e := Embed{Title: "Leaderboard", Color: ColorInfo}
	if len(board) == 0 {
		e.Description = "Nobody has finished a game yet."
		return e
	}

	lines := make([]string, len(board))
	for i, p := range board {
		lines[i] = fmt.Sprintf("%d. %s: %d won of %d", i+1, p.OwnerID, p.Won, p.Played)
	}
	e.Description = strings.Join(lines, "\n")
	return e
}

// Help lists the available commands.
func (b *Builder) Help() Embed {
	return Embed{
		Title:       "How to play",
		Description: "I pick a song from a playlist, album, artist or track. Guess its title before you run out of guesses.",
		Color:       ColorInfo,
		Fields: []Field{
			{Name: "/start <playlist|album|artist|track> <link>", Value: "Start a game. Artists can also be given by name."},
			{Name: "/guess <title>", Value: "Guess the song title. Case and extra spaces don't matter."},
			{Name: "/end", Value: "Give up and reveal the answer."},
			{Name: "/stats", Value: "Show your record."},
		},
	}
}

// Usage returns an example /start command for kind.
func Usage(kind models.Kind) string {
	switch kind {
	case models.KindPlaylist:
		return "/start playlist https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M"
	case models.KindAlbum:
		return "/start album https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy"
	case models.KindArtist:
		return "/start artist Queen"
	case models.KindTrack:
		return "/start track spotify:track:7pKfPomDEeI4TPT6EOYjn9"
	default:
		return "/start playlist <link>"
	}
}

// Error maps err to a player-facing message. Internal error text is never included.
func (b *Builder) Error(err error) Embed {
	e := Embed{Title: "Something went wrong", Color: ColorFailure}

	switch shared.Classify(err) {
	case shared.ErrInvalidInputFormat:
		e.Title = "Invalid input"
		var inputErr *resolver.InvalidInputError
		switch {
		case errors.As(err, &inputErr):
			e.Description = fmt.Sprintf("That doesn't look like a %s link or ID.", inputErr.Expected)
			e.Fields = []Field{{Name: "Example", Value: Usage(inputErr.Expected)}}
		case errors.Is(err, game.ErrBlankGuess):
			e.Description = "Your guess was empty."
			e.Fields = []Field{{Name: "Example", Value: "/guess Bohemian Rhapsody"}}
		default:
			e.Description = "I couldn't understand that command. Try /help."
		}
	case shared.ErrResourceNotFound:
		e.Title = "Not found"
		e.Description = "I couldn't find that on Spotify. Check the link and make sure it's public."
	case shared.ErrEmptyResource:
		e.Title = "Nothing to guess"
		e.Description = "That source has no playable tracks. Pick another one."
	case shared.ErrUpstreamService:
		e.Title = "Music service unavailable"
		e.Description = "Spotify didn't respond properly. Please try again in a moment."
	case shared.ErrSessionActive:
		e.Title = "Game already running"
		e.Description = "Finish your current game with /guess or give up with /end first."
		e.Color = ColorOrange
	case shared.ErrNoActiveSession:
		e.Title = "No active game"
		e.Description = "You don't have a game running. Start one with /start."
		e.Color = ColorOrange
	default:
		e.Description = "Please try again later."
	}

	return e
}

// Render formats e as plain text.
func Render(e Embed) string {
	var buf strings.Builder

	buf.WriteString(e.Title)
	buf.WriteString("\n")
	if e.Description != "" {
		buf.WriteString(e.Description)
		buf.WriteString("\n")
	}
	for _, f := range e.Fields {
		if strings.Contains(f.Value, "\n") {
			buf.WriteString(fmt.Sprintf("%s:\n%s\n", f.Name, indent(f.Value)))
			continue
		}
		buf.WriteString(fmt.Sprintf("%s: %s\n", f.Name, f.Value))
	}
	if e.Footer != "" {
		buf.WriteString(fmt.Sprintf("-- %s\n", e.Footer))
	}

	return buf.String()
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
