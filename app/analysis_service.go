package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/errors"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/statkit"
	"github.com/francisco-sereno/synapsis-bolt-sub001/ports"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultProjectID groups analyses submitted without a project
	DefaultProjectID = "default"

	defaultListLimit = 50
	maxListLimit     = 200
)

// AnalysisMeta identifies where an analysis is filed
type AnalysisMeta struct {
	ProjectID string `json:"project_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

// DescriptiveRequest asks for a descriptive summary of one sample
type DescriptiveRequest struct {
	AnalysisMeta
	Data []float64 `json:"data"`
}

// CorrelationRequest asks for a Pearson correlation matrix
type CorrelationRequest struct {
	AnalysisMeta
	Variables []stats.Variable `json:"variables"`
}

// TTestRequest asks for an independent two-sample t-test
type TTestRequest struct {
	AnalysisMeta
	Group1 []float64 `json:"group1"`
	Group2 []float64 `json:"group2"`
}

// ReliabilityRequest asks for Cronbach's alpha of an items x observations matrix
type ReliabilityRequest struct {
	AnalysisMeta
	Matrix stats.RatingMatrix `json:"matrix"`
}

// ContentValidityRequest asks for item and scale CVI of a judge panel
type ContentValidityRequest struct {
	AnalysisMeta
	Judges []stats.JudgeRatings `json:"judges"`
}

// ExpertJudgmentRequest asks for per-dimension CVI of an expert panel
type ExpertJudgmentRequest struct {
	AnalysisMeta
	Evaluations []stats.ExpertEvaluation `json:"evaluations"`
}

// SampleSizeRequest asks for the sample needed to estimate a proportion
type SampleSizeRequest struct {
	AnalysisMeta
	stats.SampleSizeParams
}

// BatchItem is one analysis of a batch. Parameters carry the request body
// of the matching single-analysis operation.
type BatchItem struct {
	Type       stats.AnalysisType `json:"type"`
	Name       string             `json:"name,omitempty"`
	Parameters json.RawMessage    `json:"parameters"`
}

// BatchRequest runs several analyses for one project
type BatchRequest struct {
	ProjectID string      `json:"project_id,omitempty"`
	Items     []BatchItem `json:"items"`
}

// BatchResult is the outcome of one batch item, reported at its request index
type BatchResult struct {
	Index    int                `json:"index"`
	Type     stats.AnalysisType `json:"type"`
	Analysis *stats.Analysis    `json:"analysis,omitempty"`
	Result   interface{}        `json:"result,omitempty"`
	Error    *BatchError        `json:"error,omitempty"`
}

// BatchError reports why a batch item failed
type BatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalysisService runs kit operations and files the outcome as analyses
type AnalysisService struct {
	repo             ports.AnalysisRepository
	logger           *internal.Logger
	batchConcurrency int
	maxBatchItems    int
	now              func() time.Time
}

// ServiceOption customizes an AnalysisService
type ServiceOption func(*AnalysisService)

// WithBatchLimits bounds batch concurrency and size
func WithBatchLimits(concurrency, maxItems int) ServiceOption {
	return func(s *AnalysisService) {
		if concurrency > 0 {
			s.batchConcurrency = concurrency
		}
		if maxItems > 0 {
			s.maxBatchItems = maxItems
		}
	}
}

// WithLogger replaces the default logger
func WithLogger(logger *internal.Logger) ServiceOption {
	return func(s *AnalysisService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now for record timestamps
func WithClock(now func() time.Time) ServiceOption {
	return func(s *AnalysisService) {
		s.now = now
	}
}

// NewAnalysisService creates an analysis service. repo may be nil, in which
// case analyses are computed but not stored.
func NewAnalysisService(repo ports.AnalysisRepository, opts ...ServiceOption) *AnalysisService {
	s := &AnalysisService{
		repo:             repo,
		logger:           internal.DefaultLogger,
		batchConcurrency: 4,
		maxBatchItems:    50,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("AnalysisService")
	return s
}

// Persistent reports whether analyses are stored
func (s *AnalysisService) Persistent() bool {
	return s.repo != nil
}

// Describe computes a descriptive summary
func (s *AnalysisService) Describe(ctx context.Context, req DescriptiveRequest) (*stats.DescriptiveSummary, *stats.Analysis, error) {
	return execute(ctx, s, req.AnalysisMeta, stats.AnalysisDescriptive, req,
		func() (*stats.DescriptiveSummary, error) { return statkit.Describe(req.Data) },
		func(r *stats.DescriptiveSummary) string { return r.Interpretation })
}

// Correlate computes a correlation matrix
func (s *AnalysisService) Correlate(ctx context.Context, req CorrelationRequest) (*stats.CorrelationResult, *stats.Analysis, error) {
	return execute(ctx, s, req.AnalysisMeta, stats.AnalysisCorrelation, req,
		func() (*stats.CorrelationResult, error) { return statkit.Correlate(req.Variables) },
		func(r *stats.CorrelationResult) string { return r.Interpretation })
}

// TTest compares the means of two groups
func (s *AnalysisService) TTest(ctx context.Context, req TTestRequest) (*stats.TTestResult, *stats.Analysis, error) {
	return execute(ctx, s, req.AnalysisMeta, stats.AnalysisTTest, req,
		func() (*stats.TTestResult, error) { return statkit.TTest(req.Group1, req.Group2) },
		func(r *stats.TTestResult) string { return r.Interpretation })
}

// Reliability computes Cronbach's alpha
func (s *AnalysisService) Reliability(ctx context.Context, req ReliabilityRequest) (*stats.ReliabilityResult, *stats.Analysis, error) {
	return execute(ctx, s, req.AnalysisMeta, stats.AnalysisReliability, req,
		func() (*stats.ReliabilityResult, error) { return statkit.CronbachAlpha(req.Matrix) },
		func(r *stats.ReliabilityResult) string { return r.Interpretation })
}

// ContentValidity computes the content validity index
func (s *AnalysisService) ContentValidity(ctx context.Context, req ContentValidityRequest) (*stats.ContentValidityResult, *stats.Analysis, error) {
	return execute(ctx, s, req.AnalysisMeta, stats.AnalysisContentValidity, req,
		func() (*stats.ContentValidityResult, error) { return statkit.ContentValidity(req.Judges) },
		func(r *stats.ContentValidityResult) string { return r.Interpretation })
}

// ExpertJudgment computes per-dimension CVIs of an expert panel
func (s *AnalysisService) ExpertJudgment(ctx context.Context, req ExpertJudgmentRequest) (*stats.ExpertJudgmentResult, *stats.Analysis, error) {
	return execute(ctx, s, req.AnalysisMeta, stats.AnalysisExpertJudgment, req,
		func() (*stats.ExpertJudgmentResult, error) { return statkit.ExpertJudgment(req.Evaluations) },
		func(r *stats.ExpertJudgmentResult) string { return strings.Join(r.Recommendations, "\n") })
}

// SampleSize computes the required sample size
func (s *AnalysisService) SampleSize(ctx context.Context, req SampleSizeRequest) (*stats.SampleSizeResult, *stats.Analysis, error) {
	return execute(ctx, s, req.AnalysisMeta, stats.AnalysisSampleSize, req,
		func() (*stats.SampleSizeResult, error) { return statkit.SampleSize(req.SampleSizeParams) },
		func(r *stats.SampleSizeResult) string { return r.Interpretation })
}

// RunBatch runs the items concurrently, bounded by the batch concurrency.
// Item failures are reported per item; only a cancelled context fails the
// whole batch. Results keep the request order.
func (s *AnalysisService) RunBatch(ctx context.Context, req BatchRequest) ([]BatchResult, error) {
	if len(req.Items) == 0 {
		return nil, core.NewInvalidInputError(core.ErrInsufficientData, "batch has no items")
	}
	if len(req.Items) > s.maxBatchItems {
		return nil, core.NewInvalidInputError(core.ErrInvalidInput, "batch has %d items, at most %d allowed", len(req.Items), s.maxBatchItems)
	}
	for i, item := range req.Items {
		if !item.Type.Valid() {
			return nil, core.NewInvalidInputError(core.ErrInvalidInput, "item %d: unknown analysis type %q", i, item.Type)
		}
	}

	results := make([]BatchResult, len(req.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, item := range req.Items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			meta := AnalysisMeta{ProjectID: req.ProjectID, Name: item.Name}
			result, analysis, err := s.runItem(gctx, meta, item)
			results[i] = BatchResult{Index: i, Type: item.Type, Analysis: analysis, Result: result}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				results[i].Error = &BatchError{Code: errors.GetCode(err), Message: errors.PublicMessage(err)}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	s.logger.Info("batch of %d analyses finished (%d failed)", len(results), failed)
	return results, nil
}

func (s *AnalysisService) runItem(ctx context.Context, meta AnalysisMeta, item BatchItem) (interface{}, *stats.Analysis, error) {
	decode := func(target interface{}) error {
		if len(item.Parameters) == 0 {
			return core.NewInvalidInputError(core.ErrInvalidInput, "parameters are required")
		}
		if err := json.Unmarshal(item.Parameters, target); err != nil {
			return core.NewInvalidInputError(core.ErrInvalidInput, "malformed parameters: %v", err)
		}
		return nil
	}

	switch item.Type {
	case stats.AnalysisDescriptive:
		var req DescriptiveRequest
		if err := decode(&req); err != nil {
			return nil, nil, err
		}
		req.AnalysisMeta = meta
		result, analysis, err := s.Describe(ctx, req)
		return unwrap(result, analysis, err)
	case stats.AnalysisCorrelation:
		var req CorrelationRequest
		if err := decode(&req); err != nil {
			return nil, nil, err
		}
		req.AnalysisMeta = meta
		result, analysis, err := s.Correlate(ctx, req)
		return unwrap(result, analysis, err)
	case stats.AnalysisTTest:
		var req TTestRequest
		if err := decode(&req); err != nil {
			return nil, nil, err
		}
		req.AnalysisMeta = meta
		result, analysis, err := s.TTest(ctx, req)
		return unwrap(result, analysis, err)
	case stats.AnalysisReliability:
		var req ReliabilityRequest
		if err := decode(&req); err != nil {
			return nil, nil, err
		}
		req.AnalysisMeta = meta
		result, analysis, err := s.Reliability(ctx, req)
		return unwrap(result, analysis, err)
	case stats.AnalysisContentValidity:
		var req ContentValidityRequest
		if err := decode(&req); err != nil {
			return nil, nil, err
		}
		req.AnalysisMeta = meta
		result, analysis, err := s.ContentValidity(ctx, req)
		return unwrap(result, analysis, err)
	case stats.AnalysisExpertJudgment:
		var req ExpertJudgmentRequest
		if err := decode(&req); err != nil {
			return nil, nil, err
		}
		req.AnalysisMeta = meta
		result, analysis, err := s.ExpertJudgment(ctx, req)
		return unwrap(result, analysis, err)
	case stats.AnalysisSampleSize:
		var req SampleSizeRequest
		if err := decode(&req); err != nil {
			return nil, nil, err
		}
		req.AnalysisMeta = meta
		result, analysis, err := s.SampleSize(ctx, req)
		return unwrap(result, analysis, err)
	default:
		return nil, nil, core.NewInvalidInputError(core.ErrInvalidInput, "unknown analysis type %q", item.Type)
	}
}

// unwrap erases the result type and keeps a nil result untyped, so a
// failed item does not carry a typed nil into its JSON.
func unwrap[T any](result *T, analysis *stats.Analysis, err error) (interface{}, *stats.Analysis, error) {
	if result == nil {
		return nil, analysis, err
	}
	return result, analysis, err
}

// GetAnalysis returns a stored analysis
func (s *AnalysisService) GetAnalysis(ctx context.Context, id core.ID) (*stats.Analysis, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// ListAnalyses returns a project's analyses, newest first. A zero limit
// uses the default page size.
func (s *AnalysisService) ListAnalyses(ctx context.Context, projectID string, limit, offset int) ([]*stats.Analysis, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, core.NewInvalidInputError(core.ErrInvalidInput, "project id is required")
	}
	if limit < 0 || offset < 0 {
		return nil, core.NewInvalidInputError(core.ErrInvalidInput, "limit and offset cannot be negative")
	}
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.ListByProject(ctx, projectID, limit, offset)
}

// DeleteAnalysis removes a stored analysis
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id core.ID) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted analysis %s", id)
	return nil
}

func (s *AnalysisService) requireStore() error {
	if s.repo == nil {
		return errors.Unavailable("analysis storage is not configured")
	}
	return nil
}

// execute runs one kit computation and files its outcome. A kit error is
// returned unchanged after a failed record is stored.
func execute[T any](
	ctx context.Context,
	s *AnalysisService,
	meta AnalysisMeta,
	analysisType stats.AnalysisType,
	params interface{},
	compute func() (*T, error),
	interpret func(*T) string,
) (*T, *stats.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	parameters, err := json.Marshal(params)
	if err != nil {
		return nil, nil, core.NewInvalidInputError(core.ErrInvalidInput, "parameters are not serializable: %v", err)
	}

	now := s.now().UTC()
	analysis := &stats.Analysis{
		ID:         core.NewID(),
		ProjectID:  strings.TrimSpace(meta.ProjectID),
		Name:       strings.TrimSpace(meta.Name),
		Type:       analysisType,
		Parameters: parameters,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if analysis.ProjectID == "" {
		analysis.ProjectID = DefaultProjectID
	}
	if analysis.Name == "" {
		analysis.Name = fmt.Sprintf("%s analysis", analysisType)
	}

	fail := func(runErr error) error {
		analysis.Status = stats.AnalysisFailed
		analysis.ErrorMessage = runErr.Error()
		s.logger.Debug("%s analysis %s failed: %v", analysisType, analysis.ID, runErr)
		if err := s.store(ctx, analysis); err != nil {
			s.logger.Warn("could not store failed analysis %s: %v", analysis.ID, err)
		}
		return runErr
	}

	result, runErr := compute()
	if runErr != nil {
		return nil, nil, fail(runErr)
	}

	results, err := json.Marshal(result)
	if err != nil {
		// only NaN or infinities make a kit result unencodable
		return nil, nil, fail(core.NewInvalidInputError(core.ErrNonFinite, "%s result is not representable: %v", analysisType, err))
	}
	analysis.Results = results
	analysis.Interpretation = interpret(result)
	analysis.Status = stats.AnalysisCompleted

	if err := s.store(ctx, analysis); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to store %s analysis", analysisType)
	}
	s.logger.Debug("%s analysis %s completed for project %s", analysisType, analysis.ID, analysis.ProjectID)
	return result, analysis, nil
}

func (s *AnalysisService) store(ctx context.Context, analysis *stats.Analysis) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Create(ctx, analysis)
}
