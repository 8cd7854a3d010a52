package repository

import (
	"context"
	"encoding/json"

	"resume-builder/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

const defaultRecentLimit = 20

// SyncRunsRepo keeps the save history of editing sessions. A nil pool makes
// every call a no-op so the builder runs without a database.
type SyncRunsRepo struct {
	pool *pgxpool.Pool
}

func NewSyncRunsRepo(pool *pgxpool.Pool) *SyncRunsRepo {
	return &SyncRunsRepo{pool: pool}
}

func (r *SyncRunsRepo) Enabled() bool {
	return r != nil && r.pool != nil
}

func (r *SyncRunsRepo) Record(ctx context.Context, run *domain.SyncRun) error {
	if !r.Enabled() {
		return nil
	}

	metaB, _ := json.Marshal(run.Metadata)

	_, err := r.pool.Exec(ctx, `INSERT INTO sync_runs (id, session_id, resume_id, status, writes, failed, error, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, writes = EXCLUDED.writes, failed = EXCLUDED.failed, error = EXCLUDED.error, metadata = EXCLUDED.metadata`,
		run.ID, run.SessionID, run.ResumeID, run.Status, run.Writes, run.Failed, run.Error, metaB, run.CreatedAt)
	return err
}

// Recent returns the latest runs of a session, newest first.
func (r *SyncRunsRepo) Recent(ctx context.Context, sessionID string, limit int) ([]domain.SyncRun, error) {
	runs := []domain.SyncRun{}
	if !r.Enabled() {
		return runs, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	err := queryJSON(ctx, r.pool, &runs, `SELECT coalesce(json_agg(row_to_json(s)), '[]')
		FROM (SELECT id, session_id, resume_id, status, writes, failed, error, metadata, created_at
			FROM sync_runs WHERE session_id=$1 ORDER BY created_at DESC LIMIT $2) s`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// ForResume returns the latest runs that touched a backend resume id.
func (r *SyncRunsRepo) ForResume(ctx context.Context, resumeID int64, limit int) ([]domain.SyncRun, error) {
	runs := []domain.SyncRun{}
	if !r.Enabled() {
		return runs, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	err := queryJSON(ctx, r.pool, &runs, `SELECT coalesce(json_agg(row_to_json(s)), '[]')
		FROM (SELECT id, session_id, resume_id, status, writes, failed, error, metadata, created_at
			FROM sync_runs WHERE resume_id=$1 ORDER BY created_at DESC LIMIT $2) s`, resumeID, limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// queryJSON runs a SQL that returns a single json value and unmarshals it into out.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, out interface{}, sql string, args ...interface{}) error {
	var raw []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
