package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
	apperrors "github.com/francisco-sereno/synapsis-bolt-sub001/internal/errors"
	"github.com/francisco-sereno/synapsis-bolt-sub001/ports"

	"github.com/jmoiron/sqlx"
)

const analysisColumns = `id, project_id, name, type, parameters, results, interpretation, status, error_message, created_at, updated_at`

// AnalysisRepositoryImpl implements AnalysisRepository for PostgreSQL
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

type analysisRow struct {
	ID             string    `db:"id"`
	ProjectID      string    `db:"project_id"`
	Name           string    `db:"name"`
	Type           string    `db:"type"`
	Parameters     []byte    `db:"parameters"`
	Results        []byte    `db:"results"`
	Interpretation string    `db:"interpretation"`
	Status         string    `db:"status"`
	ErrorMessage   string    `db:"error_message"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (row *analysisRow) toDomain() *stats.Analysis {
	analysis := &stats.Analysis{
		ID:             core.ID(row.ID),
		ProjectID:      row.ProjectID,
		Name:           row.Name,
		Type:           stats.AnalysisType(row.Type),
		Parameters:     json.RawMessage(row.Parameters),
		Interpretation: row.Interpretation,
		Status:         stats.AnalysisStatus(row.Status),
		ErrorMessage:   row.ErrorMessage,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if len(row.Results) > 0 {
		analysis.Results = json.RawMessage(row.Results)
	}
	return analysis
}

// Create stores a new analysis record
func (r *AnalysisRepositoryImpl) Create(ctx context.Context, analysis *stats.Analysis) error {
	parameters := []byte(analysis.Parameters)
	if len(parameters) == 0 {
		parameters = []byte("{}")
	}
	var results interface{}
	if len(analysis.Results) > 0 {
		results = []byte(analysis.Results)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		analysis.ID.String(),
		analysis.ProjectID,
		analysis.Name,
		string(analysis.Type),
		parameters,
		results,
		analysis.Interpretation,
		string(analysis.Status),
		analysis.ErrorMessage,
		analysis.CreatedAt,
		analysis.UpdatedAt,
	)
	if err != nil {
		return apperrors.DatabaseError("failed to insert analysis", err)
	}
	return nil
}

// GetByID retrieves an analysis by its ID
func (r *AnalysisRepositoryImpl) GetByID(ctx context.Context, id core.ID) (*stats.Analysis, error) {
	var row analysisRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("analysis", id.String())
	}
	if err != nil {
		return nil, apperrors.DatabaseError("failed to load analysis", err)
	}
	return row.toDomain(), nil
}

// ListByProject returns a project's analyses, newest first
func (r *AnalysisRepositoryImpl) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*stats.Analysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM analyses
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
	`
	args := []interface{}{projectID}
	if limit > 0 {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	} else if offset > 0 {
		query += " OFFSET $2"
		args = append(args, offset)
	}

	var rows []analysisRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.DatabaseError("failed to list analyses", err)
	}

	analyses := make([]*stats.Analysis, 0, len(rows))
	for i := range rows {
		analyses = append(analyses, rows[i].toDomain())
	}
	return analyses, nil
}

// Delete removes an analysis
func (r *AnalysisRepositoryImpl) Delete(ctx context.Context, id core.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id.String())
	if err != nil {
		return apperrors.DatabaseError("failed to delete analysis", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.DatabaseError("failed to delete analysis", err)
	}
	if affected == 0 {
		return core.NewNotFoundError("analysis", id.String())
	}
	return nil
}
