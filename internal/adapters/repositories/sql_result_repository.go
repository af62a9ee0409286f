package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"time"

	"github.com/jmoiron/sqlx"
)

// DefaultKeepRuns is how many snapshots SaveResult retains.
const DefaultKeepRuns = 20

// SQLResultRepository persists each optimization result as a JSON snapshot.
type SQLResultRepository struct {
	DB       *sqlx.DB
	KeepRuns int
}

func NewSQLResultRepository(db *sqlx.DB) *SQLResultRepository {
	return &SQLResultRepository{DB: db, KeepRuns: DefaultKeepRuns}
}

type runRow struct {
	Generation      int64  `db:"generation"`
	CreatedAt       string `db:"created_at"`
	TripCount       int    `db:"trip_count"`
	UnassignedCount int    `db:"unassigned_count"`
	Payload         string `db:"payload"`
}

func (r *SQLResultRepository) SaveResult(ctx context.Context, result *domain.OptimizationResult) (err error) {
	defer obs.Time(ctx, "repo.SaveResult")(&err)

	if r.DB == nil {
		return errors.New("save result: db is nil")
	}
	if result == nil {
		return errors.New("save result: result is nil")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("save result: marshal generation=%d: %w", result.Generation, err)
	}

	row := runRow{
		Generation:      result.Generation,
		CreatedAt:       result.CreatedAt.UTC().Format(time.RFC3339Nano),
		TripCount:       len(result.Trips),
		UnassignedCount: len(result.Unassigned),
		Payload:         string(payload),
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save result: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO optimization_runs (generation, created_at, trip_count, unassigned_count, payload)
	VALUES (:generation, :created_at, :trip_count, :unassigned_count, :payload)
	ON CONFLICT (generation) DO UPDATE
	SET created_at = EXCLUDED.created_at,
		trip_count = EXCLUDED.trip_count,
		unassigned_count = EXCLUDED.unassigned_count,
		payload = EXCLUDED.payload;
	`
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save result: insert generation=%d: %w", result.Generation, err)
	}

	if r.KeepRuns > 0 {
		prune := tx.Rebind(`DELETE FROM optimization_runs WHERE generation <= ?;`)
		if _, err := tx.ExecContext(ctx, prune, result.Generation-int64(r.KeepRuns)); err != nil {
			return fmt.Errorf("save result: prune old runs: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save result: commit tx: %w", err)
	}

	return nil
}

// LoadLatest returns the snapshot with the highest generation.
func (r *SQLResultRepository) LoadLatest(ctx context.Context) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "repo.LoadLatest")(&err)

	if r.DB == nil {
		return nil, errors.New("load latest result: db is nil")
	}

	var row runRow
	err = r.DB.GetContext(ctx, &row, `
	SELECT generation, created_at, trip_count, unassigned_count, payload
	FROM optimization_runs
	ORDER BY generation DESC
	LIMIT 1;
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load latest result: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load latest result: query: %w", err)
	}

	var result domain.OptimizationResult
	if err := json.Unmarshal([]byte(row.Payload), &result); err != nil {
		return nil, fmt.Errorf("load latest result: decode generation=%d: %w", row.Generation, err)
	}

	return &result, nil
}
