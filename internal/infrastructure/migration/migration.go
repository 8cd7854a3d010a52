package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		slog.Warn("Skipping migrations, no database configured")
		return nil
	}
	slog.Info("Starting database migrations")

	for _, m := range Migrations() {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// Migrations lists the steps in the order they run.
func Migrations() []Migration {
	return []Migration{
		{Name: "create_sync_runs", Up: createSyncRuns},
		{Name: "add_sync_runs_resume_index", Up: addSyncRunsResumeIndex},
	}
}

func createSyncRuns(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS sync_runs (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL,
			resume_id BIGINT,
			status TEXT NOT NULL,
			writes INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			metadata JSONB DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS sync_runs_session_created_idx ON sync_runs (session_id, created_at DESC);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		return err
	}
	return nil
}

// addSyncRunsResumeIndex supports history lookups by backend resume id.
func addSyncRunsResumeIndex(ctx context.Context, pool *pgxpool.Pool) error {
	query := `CREATE INDEX IF NOT EXISTS sync_runs_resume_idx ON sync_runs (resume_id) WHERE resume_id IS NOT NULL;`

	if _, err := pool.Exec(ctx, query); err != nil {
		// Log the error but don't fail - history by resume is optional
		slog.Warn("Error adding sync_runs resume index", "error", err)
		return nil
	}
	return nil
}
