package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/francisco-sereno/synapsis-bolt-sub001/app"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/errors"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/report"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error code and a client-safe message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalysisResponse is returned by every single-analysis endpoint
type AnalysisResponse struct {
	AnalysisID core.ID     `json:"analysis_id"`
	ProjectID  string      `json:"project_id"`
	Stored     bool        `json:"stored"`
	Result     interface{} `json:"result"`
}

func handleAnalysis[Req any, Res any](s *Server, run func(context.Context, Req) (*Res, *stats.Analysis, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Req
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, errors.ValidationError("malformed request body: "+err.Error()))
			return
		}

		result, analysis, err := run(c.Request.Context(), req)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, AnalysisResponse{
			AnalysisID: analysis.ID,
			ProjectID:  analysis.ProjectID,
			Stored:     s.service.Persistent(),
			Result:     result,
		})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"persistence": s.service.Persistent(),
	})
}

func (s *Server) handleBatch(c *gin.Context) {
	var req app.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.ValidationError("malformed request body: "+err.Error()))
		return
	}

	results, err := s.service.RunBatch(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		s.fail(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		s.fail(c, err)
		return
	}

	analyses, err := s.service.ListAnalyses(c.Request.Context(), c.Param("projectID"), limit, offset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analyses": analyses,
		"count":    len(analyses),
		"offset":   offset,
	})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	analysis, ok := s.loadAnalysis(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleReport(c *gin.Context) {
	analysis, ok := s.loadAnalysis(c)
	if !ok {
		return
	}

	if c.Query("format") == "markdown" {
		md, err := report.Markdown(analysis)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
		return
	}

	page, err := report.HTML(analysis)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleDeleteAnalysis(c *gin.Context) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.service.DeleteAnalysis(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) loadAnalysis(c *gin.Context) (*stats.Analysis, bool) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	analysis, err := s.service.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return analysis, true
}

// fail writes the error response. Internal errors are logged with their
// cause and reported generically.
func (s *Server) fail(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: errors.PublicMessage(err)}})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewInvalidInputError(core.ErrInvalidInput, "%s must be an integer, got %q", key, raw)
	}
	return v, nil
}
