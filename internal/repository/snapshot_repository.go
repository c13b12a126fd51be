package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tokenpulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SnapshotRepository mirrors every persisted record into token_snapshots.
type SnapshotRepository struct {
	pool   PgxPool
	tracer trace.Tracer
	runID  string
}

func NewSnapshotRepository(pool PgxPool, tracer trace.Tracer, runID string) *SnapshotRepository {
	return &SnapshotRepository{pool: pool, tracer: tracer, runID: runID}
}

func (r *SnapshotRepository) Name() string { return "postgres" }

// Append inserts rec; a second insert for the same token and timestamp is a
// no-op.
func (r *SnapshotRepository) Append(ctx context.Context, rec domain.Record) error {
	ctx, span := r.tracer.Start(ctx, "snapshot-repo.append")
	defer span.End()

	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("encode snapshot fields: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO token_snapshots (token, collected_at, run_id, fields)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (token, collected_at) DO NOTHING`,
		rec.Token.String(), rec.CollectedAt, r.runID, fields,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) StartRun(ctx context.Context, tokens []string, startedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "snapshot-repo.start-run")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO collection_runs (run_id, tokens, started_at) VALUES ($1, $2, $3)
		 ON CONFLICT (run_id) DO NOTHING`,
		r.runID, tokens, startedAt,
	)
	return err
}

func (r *SnapshotRepository) FinishRun(ctx context.Context, finishedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "snapshot-repo.finish-run")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE collection_runs SET finished_at = $2 WHERE run_id = $1`,
		r.runID, finishedAt,
	)
	return err
}

// Recent returns up to limit snapshots for token, newest first.
func (r *SnapshotRepository) Recent(ctx context.Context, token string, limit int) ([]domain.Record, error) {
	ctx, span := r.tracer.Start(ctx, "snapshot-repo.recent")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT token, collected_at, fields
		 FROM token_snapshots
		 WHERE token = $1
		 ORDER BY collected_at DESC
		 LIMIT $2`,
		token, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			tok    string
			at     time.Time
			fields []byte
		)
		if err := rows.Scan(&tok, &at, &fields); err != nil {
			return nil, err
		}
		rec := domain.NewRecord(domain.TokenTarget(tok), at)
		if err := json.Unmarshal(fields, &rec.Fields); err != nil {
			return nil, fmt.Errorf("decode snapshot fields: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
