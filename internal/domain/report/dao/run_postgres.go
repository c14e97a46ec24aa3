package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

// RunPostgres implements RunRepository for PostgreSQL
type RunPostgres struct {
	pool *pgxpool.Pool
}

// NewRunPostgres creates a new PostgreSQL report run repository
func NewRunPostgres(pool *pgxpool.Pool) *RunPostgres {
	return &RunPostgres{pool: pool}
}

// Create inserts one completed report run
func (r *RunPostgres) Create(ctx context.Context, run *entity.ReportRun) error {
	query := `
		INSERT INTO report_runs (id, platform, account_ref, follower_count, engagement_rate, items_analyzed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Platform,
		run.AccountRef,
		run.FollowerCount,
		run.EngagementRate,
		run.ItemsAnalyzed,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting report run: %w", err)
	}

	return nil
}

// ListByAccount returns the newest runs for one account, newest first
func (r *RunPostgres) ListByAccount(ctx context.Context, platform entity.Platform, accountRef string, limit int) ([]entity.ReportRun, error) {
	query := `
		SELECT id, platform, account_ref, follower_count, engagement_rate, items_analyzed, created_at
		FROM report_runs
		WHERE platform = $1 AND account_ref = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, platform, accountRef, limit)
	if err != nil {
		return nil, fmt.Errorf("querying report runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ListRecentAccounts returns the latest run per account built within the last
// sinceHours hours, newest first. Used by the refresh scheduler.
func (r *RunPostgres) ListRecentAccounts(ctx context.Context, sinceHours int, limit int) ([]entity.ReportRun, error) {
	query := `
		SELECT DISTINCT ON (platform, account_ref)
		       id, platform, account_ref, follower_count, engagement_rate, items_analyzed, created_at
		FROM report_runs
		WHERE created_at > now() - make_interval(hours => $1)
		ORDER BY platform, account_ref, created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, sinceHours, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent report runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRuns(rows rowScanner) ([]entity.ReportRun, error) {
	var runs []entity.ReportRun
	for rows.Next() {
		var run entity.ReportRun
		if err := rows.Scan(
			&run.ID,
			&run.Platform,
			&run.AccountRef,
			&run.FollowerCount,
			&run.EngagementRate,
			&run.ItemsAnalyzed,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning report run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report runs: %w", err)
	}
	return runs, nil
}
