package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

// DefaultCacheTTL is how long a cached track pool is served before it is fetched again.
const DefaultCacheTTL = 12 * time.Hour

// CacheStats summarizes the catalog cache.
type CacheStats struct {
	Entries int
	Tracks  int
	Expired int
}

// CatalogCacheRepository implements services.TrackCacher on SQLite.
//
// An entry holds the normalized track pool of one reference. Writing an entry replaces any previous pool for the same reference.
type CatalogCacheRepository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewCatalogCacheRepository creates a CatalogCacheRepository. A non-positive ttl uses [DefaultCacheTTL].
func NewCatalogCacheRepository(db *sql.DB, ttl time.Duration) *CatalogCacheRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CatalogCacheRepository{db: db, ttl: ttl, now: time.Now}
}

// cacheKey returns the stored (kind, value) pair for ref. Artist names are normalized so "Queen" and " queen" share an entry.
func cacheKey(ref models.CatalogReference) (string, string) {
	if ref.ByName {
		return ref.Kind.String(), "name:" + shared.NormalizeText(ref.Value)
	}
	return ref.Kind.String(), ref.Value
}

// CachedTracks returns the cached pool for ref. Missing and expired entries report ok == false.
func (r *CatalogCacheRepository) CachedTracks(ctx context.Context, ref models.CatalogReference) ([]models.Track, bool, error) {
	kind, value := cacheKey(ref)

	var (
		id        string
		fetchedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, fetched_at FROM catalog_cache WHERE ref_kind = ? AND ref_value = ?`,
		kind, value,
	).Scan(&id, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache entry: %w", err)
	}

	if r.now().Sub(fetchedAt) > r.ttl {
		return nil, false, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT title, artist, catalog_id FROM catalog_cache_tracks WHERE cache_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cached tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.Title, &t.Artist, &t.CatalogID); err != nil {
			return nil, false, fmt.Errorf("failed to scan cached track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, len(tracks) > 0, nil
}

// CacheTracks stores tracks as the pool for ref, replacing any previous entry.
func (r *CatalogCacheRepository) CacheTracks(ctx context.Context, ref models.CatalogReference, tracks []models.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	sequence, err := NextSequence(ctx, r.db, "catalog_cache")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	kind, value := cacheKey(ref)
	if err := deleteEntries(ctx, tx, `WHERE ref_kind = ? AND ref_value = ?`, kind, value); err != nil {
		return err
	}

	id := shared.GenerateID()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO catalog_cache (id, sequence, ref_kind, ref_value, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		id, sequence, kind, value, r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO catalog_cache_tracks (cache_id, position, title, artist, catalog_id) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tracks {
		if _, err := stmt.ExecContext(ctx, id, i, t.Title, t.Artist, t.CatalogID); err != nil {
			return fmt.Errorf("failed to insert cached track: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}

// Clear removes every cache entry and returns how many were removed.
func (r *CatalogCacheRepository) Clear(ctx context.Context) (int64, error) {
	return r.purge(ctx, "")
}

// Prune removes entries older than the TTL and returns how many were removed.
func (r *CatalogCacheRepository) Prune(ctx context.Context) (int64, error) {
	return r.purge(ctx, "WHERE fetched_at < ?", r.now().UTC().Add(-r.ttl))
}

func (r *CatalogCacheRepository) purge(ctx context.Context, where string, args ...any) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_cache "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	if err := deleteEntries(ctx, tx, where, args...); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cache purge: %w", err)
	}
	return n, nil
}

// Stats counts cache entries, cached tracks and expired entries.
func (r *CatalogCacheRepository) Stats(ctx context.Context) (CacheStats, error) {
	var stats CacheStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM catalog_cache),
			(SELECT COUNT(*) FROM catalog_cache_tracks),
			(SELECT COUNT(*) FROM catalog_cache WHERE fetched_at < ?)
	`, r.now().UTC().Add(-r.ttl)).Scan(&stats.Entries, &stats.Tracks, &stats.Expired)
	if err != nil {
		return CacheStats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return stats, nil
}

// deleteEntries removes the cache entries matching where along with their tracks.
// Track rows are deleted explicitly so the result does not depend on foreign key enforcement.
func deleteEntries(ctx context.Context, tx *sql.Tx, where string, args ...any) error {
	_, err := tx.ExecContext(ctx,
		"DELETE FROM catalog_cache_tracks WHERE cache_id IN (SELECT id FROM catalog_cache "+where+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cached tracks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_cache "+where, args...); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}
