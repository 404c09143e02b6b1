package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRow_ToDomain(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	row := analysisRow{
		ID:             "0190f7a2-2c47-7b0e-9d3c-8c1d1e2f3a4b",
		ProjectID:      "thesis",
		Name:           "pilot alpha",
		Type:           "reliability",
		Parameters:     []byte(`{"matrix":[[1,2],[2,3]]}`),
		Interpretation: "good",
		Status:         "completed",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	analysis := row.toDomain()
	assert.Equal(t, core.ID(row.ID), analysis.ID)
	assert.Equal(t, stats.AnalysisReliability, analysis.Type)
	assert.Equal(t, stats.AnalysisCompleted, analysis.Status)
	assert.JSONEq(t, `{"matrix":[[1,2],[2,3]]}`, string(analysis.Parameters))
	assert.Nil(t, analysis.Results)
	assert.Equal(t, now, analysis.CreatedAt)
}

// TestAnalysisRepository_Postgres runs against a live database when
// TEST_DATABASE_URL is set.
func TestAnalysisRepository_Postgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, migration.NewRunner().Run(ctx, db))

	repo := NewAnalysisRepository(db)
	project := "repo-test-" + core.NewID().String()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := &stats.Analysis{
		ID: core.NewID(), ProjectID: project, Name: "first", Type: stats.AnalysisSampleSize,
		Parameters: json.RawMessage(`{"confidence_level":95}`), Results: json.RawMessage(`{"sample_size":385}`),
		Status: stats.AnalysisCompleted, CreatedAt: now, UpdatedAt: now,
	}
	second := &stats.Analysis{
		ID: core.NewID(), ProjectID: project, Name: "second", Type: stats.AnalysisTTest,
		Parameters: json.RawMessage(`{}`), Status: stats.AnalysisFailed, ErrorMessage: "invalid input",
		CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second),
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	loaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", loaded.Name)
	assert.JSONEq(t, `{"sample_size":385}`, string(loaded.Results))

	list, err := repo.ListByProject(ctx, project, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	page, err := repo.ListByProject(ctx, project, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)

	require.NoError(t, repo.Delete(ctx, first.ID))
	require.NoError(t, repo.Delete(ctx, second.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.True(t, core.IsNotFoundError(err))
	assert.True(t, core.IsNotFoundError(repo.Delete(ctx, first.ID)))
}
