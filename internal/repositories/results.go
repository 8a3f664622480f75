package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

// ResultRepository stores finished games and aggregates them into player stats.
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository with the given database connection
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// RecordResult inserts a finished game. The ID is generated when empty.
func (r *ResultRepository) RecordResult(ctx context.Context, result models.GameResult) error {
	if result.SessionID == "" || result.OwnerID == "" {
		return fmt.Errorf("%w: result needs a session and an owner", shared.ErrMissingArgument)
	}

	sequence, err := NextSequence(ctx, r.db, "game_results")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if result.ID == "" {
		result.ID = shared.GenerateID()
	}
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now()
	}

	var sourceKind string
	if result.Source.Value != "" {
		sourceKind = result.Source.Kind.String()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO game_results (
			id, sequence, session_id, owner_id, outcome,
			answer_title, answer_artist, answer_id,
			guesses_used, max_guesses, source_kind, source_value,
			started_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.ID,
		sequence,
		result.SessionID,
		result.OwnerID,
		string(result.Outcome),
		result.Answer.Title,
		result.Answer.Artist,
		result.Answer.CatalogID,
		result.GuessesUsed,
		result.MaxGuesses,
		sourceKind,
		result.Source.Value,
		result.StartedAt.UTC(),
		result.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// Recent returns ownerID's latest results, newest first.
func (r *ResultRepository) Recent(ctx context.Context, ownerID string, limit int) ([]models.GameResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, session_id, owner_id, outcome,
			answer_title, answer_artist, answer_id,
			guesses_used, max_guesses, source_kind, source_value,
			started_at, finished_at
		FROM game_results
		WHERE owner_id = ?
		ORDER BY sequence DESC
		LIMIT ?
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.GameResult
	for rows.Next() {
		result, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return results, nil
}

const statsColumns = `
	owner_id,
	COUNT(*),
	COALESCE(SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN outcome = 'lost' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN outcome = 'ended' THEN 1 ELSE 0 END), 0),
	COALESCE(MIN(CASE WHEN outcome = 'won' THEN guesses_used END), 0)
`

// PlayerStats aggregates every recorded game of ownerID. A player with no games gets zero stats.
func (r *ResultRepository) PlayerStats(ctx context.Context, ownerID string) (models.PlayerStats, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+statsColumns+" FROM game_results WHERE owner_id = ? GROUP BY owner_id",
		ownerID,
	)

	stats, err := scanStats(row)
	if err == sql.ErrNoRows {
		return models.PlayerStats{OwnerID: ownerID}, nil
	}
	if err != nil {
		return models.PlayerStats{}, fmt.Errorf("failed to query player stats: %w", err)
	}
	return stats, nil
}

// Leaderboard returns the players with the most wins, ties broken by fewer games played.
func (r *ResultRepository) Leaderboard(ctx context.Context, limit int) ([]models.PlayerStats, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+statsColumns+` FROM game_results
		GROUP BY owner_id
		ORDER BY 3 DESC, 2 ASC, owner_id ASC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var board []models.PlayerStats
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		board = append(board, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return board, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStats(s scanner) (models.PlayerStats, error) {
	var stats models.PlayerStats
	err := s.Scan(&stats.OwnerID, &stats.Played, &stats.Won, &stats.Lost, &stats.Abandoned, &stats.BestGuesses)
	return stats, err
}

// scanRow scans a row from [sql.Rows] into a [models.GameResult]
func (r *ResultRepository) scanRow(rows *sql.Rows) (models.GameResult, error) {
	var (
		result      models.GameResult
		outcome     string
		sourceKind  string
		sourceValue string
	)

	err := rows.Scan(
		&result.ID, &result.SessionID, &result.OwnerID, &outcome,
		&result.Answer.Title, &result.Answer.Artist, &result.Answer.CatalogID,
		&result.GuessesUsed, &result.MaxGuesses, &sourceKind, &sourceValue,
		&result.StartedAt, &result.FinishedAt,
	)
	if err != nil {
		return models.GameResult{}, fmt.Errorf("failed to scan result: %w", err)
	}

	result.Outcome = models.ResultKind(outcome)
	if kind, err := models.ParseKind(sourceKind); err == nil {
		result.Source = models.CatalogReference{Kind: kind, Value: sourceValue}
	}

	return result, nil
}
