package cache

import (
	"context"
	"errors"
	"fmt"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"

	"github.com/jmoiron/sqlx"
)

// Keeps IN lists well under SQLite's bound-parameter limit.
const sqlCacheChunk = 400

// SQLDistanceCache is a SQL-backed cache for coordinate pair distances.
// Rows are keyed by the canonical pair: origin holds the lower key.
// Works on both Postgres and SQLite; queries are rebound per driver.
type SQLDistanceCache struct {
	DB *sqlx.DB
}

func NewSQLDistanceCache(db *sqlx.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

type distanceRow struct {
	Origin          string `db:"origin"`
	Destination     string `db:"destination"`
	DistanceMeters  int    `db:"distance_meters"`
	DurationSeconds int    `db:"duration_seconds"`
}

// Fetch cached distances for the given pairs.
func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	pairs []ports.Pair,
) (_ map[ports.Pair]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}

	out := make(map[ports.Pair]ports.DistanceResult, len(pairs))
	if len(pairs) == 0 {
		return out, nil
	}

	// Pair keys are what rows are matched on; the input pair is what callers index by.
	wanted := make(map[string]ports.Pair, len(pairs))
	origins := make([]string, 0, len(pairs))
	seenOrigin := map[string]struct{}{}
	for _, p := range pairs {
		canon := ports.NewPair(p.A, p.B)
		wanted[canon.Key()] = p
		o := canon.A.Key()
		if _, ok := seenOrigin[o]; !ok {
			seenOrigin[o] = struct{}{}
			origins = append(origins, o)
		}
	}

	for start := 0; start < len(origins); start += sqlCacheChunk {
		end := min(start+sqlCacheChunk, len(origins))

		query, args, err := sqlx.In(`
		SELECT origin, destination, distance_meters, duration_seconds
		FROM distance_cache
		WHERE origin IN (?);
		`, origins[start:end])
		if err != nil {
			return nil, fmt.Errorf("get distance cache: build query: %w", err)
		}

		var rows []distanceRow
		if err := s.DB.SelectContext(ctx, &rows, s.DB.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
		}

		for _, r := range rows {
			p, ok := wanted[r.Origin+"|"+r.Destination]
			if !ok {
				continue
			}
			out[p] = ports.DistanceResult{
				DistanceMeters:  r.DistanceMeters,
				DurationSeconds: r.DurationSeconds,
			}
		}
	}

	return out, nil
}

// Store many cached distance results in one transaction.
func (s *SQLDistanceCache) PutMany(
	ctx context.Context,
	results map[ports.Pair]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.cache.sql.PutMany")(&err)

	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert distance cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
	INSERT INTO distance_cache (origin, destination, distance_meters, duration_seconds)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`))
	if err != nil {
		return fmt.Errorf("insert distance cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for p, r := range results {
		p = ports.NewPair(p.A, p.B)
		if _, err := stmt.ExecContext(ctx, p.A.Key(), p.B.Key(), r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("insert distance cache pair=%q: %w", p.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert distance cache commit: %w", err)
	}

	return nil
}
