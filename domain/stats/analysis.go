package stats

import (
	"encoding/json"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
)

// AnalysisType names the kit operation an analysis ran
type AnalysisType string

const (
	AnalysisDescriptive     AnalysisType = "descriptive"
	AnalysisCorrelation     AnalysisType = "correlation"
	AnalysisTTest           AnalysisType = "ttest"
	AnalysisReliability     AnalysisType = "reliability"
	AnalysisContentValidity AnalysisType = "content_validity"
	AnalysisExpertJudgment  AnalysisType = "expert_judgment"
	AnalysisSampleSize      AnalysisType = "sample_size"
)

// Valid reports whether t is a known analysis type
func (t AnalysisType) Valid() bool {
	switch t {
	case AnalysisDescriptive, AnalysisCorrelation, AnalysisTTest, AnalysisReliability,
		AnalysisContentValidity, AnalysisExpertJudgment, AnalysisSampleSize:
		return true
	}
	return false
}

// AnalysisStatus is the outcome of a stored analysis
type AnalysisStatus string

const (
	AnalysisCompleted AnalysisStatus = "completed"
	AnalysisFailed    AnalysisStatus = "failed"
)

// Analysis is the persisted record of one kit run. Parameters hold the
// request as submitted; Results hold the kit output and are empty when the
// run failed.
type Analysis struct {
	ID             core.ID         `json:"id"`
	ProjectID      string          `json:"project_id"`
	Name           string          `json:"name"`
	Type           AnalysisType    `json:"type"`
	Parameters     json.RawMessage `json:"parameters"`
	Results        json.RawMessage `json:"results,omitempty"`
	Interpretation string          `json:"interpretation"`
	Status         AnalysisStatus  `json:"status"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
