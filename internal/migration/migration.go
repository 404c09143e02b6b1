package migration

import (
	"context"

	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// Step is one idempotent schema statement
type Step struct {
	Name      string
	Statement string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	steps   []Step
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		steps:   Steps(),
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Steps lists the schema statements in the order they are applied
func Steps() []Step {
	return []Step{
		{Name: "create analyses table", Statement: `
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			project_id VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL,
			parameters JSONB NOT NULL DEFAULT '{}',
			results JSONB,
			interpretation TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'completed',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`},
		{Name: "add analyses status check", Statement: `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'analyses_status_check'
			) THEN
				ALTER TABLE analyses ADD CONSTRAINT analyses_status_check
					CHECK (status IN ('completed', 'failed'));
			END IF;
		END $$`},
		{Name: "create analyses project index", Statement: `
		CREATE INDEX IF NOT EXISTS idx_analyses_project_created
			ON analyses (project_id, created_at DESC)`},
		{Name: "create analyses type index", Statement: `
		CREATE INDEX IF NOT EXISTS idx_analyses_type ON analyses (type)`},
	}
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.steps {
		if _, err := db.ExecContext(ctx, step.Statement); err != nil {
			return errors.DatabaseError("migration step failed: "+step.Name, err)
		}
	}
	return nil
}
