package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAnalysisFromFile_FillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pilot-alpha.json", `{"type":"reliability","parameters":{"matrix":[[1,2],[2,1]]},"results":{"alpha":0.8}}`)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	analysis, err := loadAnalysisFromFile(path, now)
	require.NoError(t, err)

	assert.Equal(t, stats.AnalysisReliability, analysis.Type)
	assert.Equal(t, "default", analysis.ProjectID)
	assert.Equal(t, "pilot-alpha", analysis.Name)
	assert.Equal(t, stats.AnalysisCompleted, analysis.Status)
	assert.Equal(t, now, analysis.CreatedAt)
	assert.Equal(t, now, analysis.UpdatedAt)
	assert.False(t, analysis.ID.IsEmpty())

	again, err := loadAnalysisFromFile(path, now)
	require.NoError(t, err)
	assert.Equal(t, analysis.ID, again.ID, "derived id is stable across runs")
}

func TestLoadAnalysisFromFile_KeepsExportedFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", `{
		"id": "0190f5d2-7c1e-7a3b-9c4d-5e6f7a8b9c0d",
		"project_id": "thesis",
		"name": "CVI round 1",
		"type": "content_validity",
		"parameters": {},
		"error_message": "judge 2: rating 5 outside 1..4",
		"created_at": "2025-11-02T09:30:00Z"
	}`)

	analysis, err := loadAnalysisFromFile(path, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "0190f5d2-7c1e-7a3b-9c4d-5e6f7a8b9c0d", analysis.ID.String())
	assert.Equal(t, "thesis", analysis.ProjectID)
	assert.Equal(t, "CVI round 1", analysis.Name)
	assert.Equal(t, stats.AnalysisFailed, analysis.Status)
	assert.Equal(t, analysis.CreatedAt, analysis.UpdatedAt)
}

func TestLoadAnalysisFromFile_Rejects(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown.json":   `{"type":"anova"}`,
		"bad-id.json":    `{"type":"ttest","id":"not-a-uuid"}`,
		"malformed.json": `{"type":`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadAnalysisFromFile(writeFile(t, dir, name, content), time.Now())
			assert.Error(t, err)
		})
	}
}

func TestFindAnalysisFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.json", "{}")
	writeFile(t, dir, "nested/two.json", "{}")
	writeFile(t, dir, "notes.txt", "")

	files, err := findAnalysisFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
