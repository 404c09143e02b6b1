package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/app"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/errors"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	store   *testkit.InMemoryAnalysisRepository
}

func newTestServer(t *testing.T, persistent bool) *testServer {
	t.Helper()
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)

	store := testkit.NewInMemoryAnalysisRepository()
	var service *app.AnalysisService
	if persistent {
		service = app.NewAnalysisService(store, app.WithLogger(logger))
	} else {
		service = app.NewAnalysisService(nil, app.WithLogger(logger))
	}
	return &testServer{handler: NewServer(service, logger, "test").Handler(), store: store}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type response[T any] struct {
	AnalysisID core.ID `json:"analysis_id"`
	ProjectID  string  `json:"project_id"`
	Stored     bool    `json:"stored"`
	Result     T       `json:"result"`
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","persistence":false}`, rec.Body.String())
}

func TestStatisticsEndpoints(t *testing.T) {
	ts := newTestServer(t, true)

	t.Run("descriptive", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/statistics/descriptive", `{"project_id":"p1","data":[1,2,2,3,3,3,4,4,100]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[response[stats.DescriptiveSummary]](t, rec)
		assert.True(t, body.Stored)
		assert.Equal(t, "p1", body.ProjectID)
		assert.Equal(t, []float64{100}, body.Result.Outliers)
	})

	t.Run("correlation", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/statistics/correlation",
			`{"variables":[{"name":"x","data":[1,2,3,4,5]},{"name":"y","data":[2,4,6,8,10]}]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[response[stats.CorrelationResult]](t, rec)
		assert.InDelta(t, 1.0, body.Result.Matrix[0][1], 1e-12)
	})

	t.Run("ttest", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/statistics/ttest", `{"group1":[10,12,11,13],"group2":[8,9,7,10]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[response[stats.TTestResult]](t, rec)
		assert.Equal(t, 6, body.Result.DegreesOfFreedom)
		assert.True(t, body.Result.Significant)
	})

	t.Run("reliability", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/statistics/reliability", `{"matrix":[[1,2,3,4],[1,2,3,4],[1,2,3,4]]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[response[stats.ReliabilityResult]](t, rec)
		assert.InDelta(t, 1.0, body.Result.Alpha, 1e-12)
	})

	t.Run("content validity", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/statistics/content-validity",
			`{"judges":[{"judge_id":"a","ratings":[3]},{"judge_id":"b","ratings":[4]},{"judge_id":"c","ratings":[2]},{"judge_id":"d","ratings":[4]}]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[response[stats.ContentValidityResult]](t, rec)
		assert.Equal(t, 0.75, body.Result.ScaleCVI)
		assert.Equal(t, []int{0}, body.Result.ItemsForReview)
	})

	t.Run("expert judgment", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/statistics/expert-judgment",
			`{"evaluations":[{"expert_id":"e1","item_ratings":[{"item_id":"q1","relevance":4,"clarity":4,"coherence":3}]}]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[response[stats.ExpertJudgmentResult]](t, rec)
		assert.Equal(t, 1.0, body.Result.ScaleCVI)
	})

	t.Run("sample size", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/statistics/sample-size", `{"population_size":1000,"confidence_level":95,"margin_of_error":5}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[response[stats.SampleSizeResult]](t, rec)
		assert.Equal(t, 278, body.Result.SampleSize)
		assert.Equal(t, 334, body.Result.AdjustedSize)
	})

	assert.Equal(t, 7, ts.store.Len())
}

func TestStatistics_InvalidInputIs400(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(t, http.MethodPost, "/api/v1/statistics/descriptive", `{"data":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorBody](t, rec)
	assert.Equal(t, errors.CodeInvalidInput, body.Error.Code)
	assert.Contains(t, body.Error.Message, "empty sample")

	rec = ts.do(t, http.MethodPost, "/api/v1/statistics/ttest", `{"group1":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.CodeValidationError, decode[ErrorBody](t, rec).Error.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/statistics/content-validity", `{"judges":[{"ratings":[5]}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatistics_OverflowingInputIs400AndStoredAsFailed(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(t, http.MethodPost, "/api/v1/statistics/descriptive", `{"data":[1e308,1e308,-1e308]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorBody](t, rec)
	assert.Equal(t, errors.CodeInvalidInput, body.Error.Code)
	assert.Contains(t, body.Error.Message, "non-finite")

	rec = ts.do(t, http.MethodPost, "/api/v1/statistics/ttest", `{"group1":[1e308,-1e308],"group2":[1,2]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.CodeInvalidInput, decode[ErrorBody](t, rec).Error.Code)

	require.Equal(t, 2, ts.store.Len())
	rec = ts.do(t, http.MethodGet, "/api/v1/projects/default/analyses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Analyses []stats.Analysis `json:"analyses"`
	}](t, rec)
	require.Len(t, list.Analyses, 2)
	for _, a := range list.Analyses {
		assert.Equal(t, stats.AnalysisFailed, a.Status)
		assert.Contains(t, a.ErrorMessage, "overflows")
	}
}

func TestBatchEndpoint(t *testing.T) {
	ts := newTestServer(t, true)
	rec := ts.do(t, http.MethodPost, "/api/v1/statistics/batch", `{
		"project_id": "survey",
		"items": [
			{"type": "reliability", "parameters": {"matrix": [[1,2,3],[2,3,3],[1,3,2]]}},
			{"type": "sample_size", "parameters": {"confidence_level": 0, "margin_of_error": 5}}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Results []struct {
			Index  int             `json:"index"`
			Type   string          `json:"type"`
			Error  *ErrorDetail    `json:"error"`
			Result json.RawMessage `json:"result"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Nil(t, body.Results[0].Error)
	assert.Contains(t, string(body.Results[0].Result), `"alpha"`)
	require.NotNil(t, body.Results[1].Error)
	assert.Equal(t, errors.CodeInvalidInput, body.Results[1].Error.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/statistics/batch", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisLifecycle(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(t, http.MethodPost, "/api/v1/statistics/sample-size", `{"project_id":"thesis","name":"main survey","confidence_level":95,"margin_of_error":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[response[stats.SampleSizeResult]](t, rec)

	rec = ts.do(t, http.MethodGet, "/api/v1/projects/thesis/analyses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Analyses []stats.Analysis `json:"analyses"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, created.AnalysisID, list.Analyses[0].ID)
	assert.Equal(t, "main survey", list.Analyses[0].Name)

	path := "/api/v1/analyses/" + created.AnalysisID.String()
	rec = ts.do(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	analysis := decode[stats.Analysis](t, rec)
	assert.Equal(t, stats.AnalysisSampleSize, analysis.Type)
	assert.Equal(t, stats.AnalysisCompleted, analysis.Status)

	rec = ts.do(t, http.MethodGet, path+"/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<title>main survey</title>")

	rec = ts.do(t, http.MethodGet, path+"/report?format=markdown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "| Required sample | 385 |")

	rec = ts.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.CodeNotFound, decode[ErrorBody](t, rec).Error.Code)
}

func TestAnalysisRoutes_BadInput(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(t, http.MethodGet, "/api/v1/analyses/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/projects/thesis/analyses?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/v1/analyses/"+core.NewID().String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalysisRoutes_WithoutStorage(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/v1/statistics/sample-size", `{"confidence_level":95,"margin_of_error":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[response[stats.SampleSizeResult]](t, rec).Stored)

	rec = ts.do(t, http.MethodGet, "/api/v1/analyses/"+core.NewID().String(), "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, errors.CodeUnavailable, decode[ErrorBody](t, rec).Error.Code)
}

func TestServer_ShutdownStopsConcurrentStart(t *testing.T) {
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)
	server := NewServer(app.NewAnalysisService(nil, app.WithLogger(logger)), logger, "test")

	done := make(chan error, 1)
	go func() { done <- server.Start("127.0.0.1:0") }()
	require.NoError(t, server.Shutdown(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
