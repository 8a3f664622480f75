package main

import (
	"context"

	"github.com/desertthunder/songle/internal/formatter"
	"github.com/desertthunder/songle/internal/repositories"
	"github.com/urfave/cli/v3"
)

// Stats prints the leaderboard, or one player's record and recent games with --user.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}
	repo := repositories.NewResultRepository(db)
	builder := formatter.NewBuilder(r.config.Game.HistoryDisplay)
	limit := cmd.Int("limit")

	user := cmd.String("user")
	if user == "" {
		board, err := repo.Leaderboard(ctx, limit)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(board, cmd.Bool("pretty"))
		}
		return r.writePlain("%s", formatter.Render(builder.Leaderboard(board)))
	}

	stats, err := repo.PlayerStats(ctx, user)
	if err != nil {
		return err
	}
	recent, err := repo.Recent(ctx, user, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"stats": stats, "recent": recent}, cmd.Bool("pretty"))
	}

	if err := r.writePlain("%s", formatter.Render(builder.Stats(user, stats))); err != nil {
		return err
	}
	for _, g := range recent {
		r.writePlain("  %s  %-5s  %s by %s (%d/%d)\n",
			g.FinishedAt.Local().Format("2006-01-02 15:04"), g.Outcome, g.Answer.Title, g.Answer.Artist, g.GuessesUsed, g.MaxGuesses)
	}
	return nil
}
