package ports

import (
	"context"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
)

// AnalysisRepository defines the interface for analysis persistence
type AnalysisRepository interface {
	// Create stores a new analysis record
	Create(ctx context.Context, analysis *stats.Analysis) error

	// GetByID returns the analysis or an error matching core.ErrNotFound
	GetByID(ctx context.Context, id core.ID) (*stats.Analysis, error)

	// ListByProject returns a project's analyses, newest first. A limit of 0
	// means no limit.
	ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*stats.Analysis, error)

	// Delete removes an analysis or returns an error matching core.ErrNotFound
	Delete(ctx context.Context, id core.ID) error
}
