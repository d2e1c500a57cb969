package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dyluth/moot/internal/orchestrator"
	"github.com/dyluth/moot/internal/provider"
	"github.com/dyluth/moot/pkg/debate"
)

// createRequest is the body of POST /debate/create.
type createRequest struct {
	Proposition  string `json:"proposition"`
	ForModel     string `json:"for_model"`
	AgainstModel string `json:"against_model"`
	MaxTurns     int    `json:"max_turns"`
}

// turnRequest carries the per-request provider keys for turn execution.
type turnRequest struct {
	APIKeys map[string]string `json:"api_keys"`
}

// adjudicateRequest names the judging model alongside the provider keys.
type adjudicateRequest struct {
	AdjudicatorModel string            `json:"adjudicator_model"`
	APIKeys          map[string]string `json:"api_keys"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "moot",
		"message": "multi-agent debate orchestration service",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, provider.AvailableModels())
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.Proposition == "" {
		badRequest(c, "proposition is required")
		return
	}
	if maxLen := *s.cfg.Debates.MaxPropositionLength; len(req.Proposition) > maxLen {
		badRequest(c, fmt.Sprintf("proposition exceeds %d characters", maxLen))
		return
	}
	for _, model := range []string{req.ForModel, req.AgainstModel} {
		if _, err := provider.FamilyForModel(model); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	maxTurns := req.MaxTurns
	if maxTurns == 0 {
		maxTurns = *s.cfg.Debates.DefaultMaxTurns
	}
	if maxTurns < 1 {
		badRequest(c, "max_turns must be >= 1")
		return
	}
	if ceiling := *s.cfg.Debates.MaxTurnsCeiling; maxTurns > ceiling {
		badRequest(c, fmt.Sprintf("max_turns exceeds ceiling of %d", ceiling))
		return
	}

	d := debate.NewDebate(req.Proposition, req.ForModel, req.AgainstModel, maxTurns)
	if err := s.store.Create(c.Request.Context(), d); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

func (s *Server) handleList(c *gin.Context) {
	debates, err := s.store.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debates": debates, "count": len(debates)})
}

func (s *Server) handleGet(c *gin.Context) {
	d, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleDelete(c *gin.Context) {
	deleted, err := s.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !deleted {
		writeError(c, debate.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (s *Server) handleTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	d, err := s.engine.ConductTurn(c.Request.Context(), c.Param("id"), provider.Credentials(req.APIKeys))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleStart(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	d, err := s.engine.RunToCompletion(c.Request.Context(), c.Param("id"), provider.Credentials(req.APIKeys))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleAdjudicate(c *gin.Context) {
	var req adjudicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.AdjudicatorModel == "" {
		badRequest(c, "adjudicator_model is required")
		return
	}

	result, err := s.engine.Adjudicate(c.Request.Context(), c.Param("id"),
		req.AdjudicatorModel, provider.Credentials(req.APIKeys))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": message})
}

// writeError maps domain errors onto HTTP status codes. Provider and
// adjudicator failures are upstream faults, not ours, so they map to 502.
func writeError(c *gin.Context, err error) {
	switch {
	case debate.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, debate.ErrAlreadyCompleted), errors.Is(err, debate.ErrNotCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_state", "message": err.Error()})
	case provider.IsUnknownModel(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_model", "message": err.Error()})
	case provider.IsMissingCredential(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_credential", "message": err.Error()})
	case provider.IsProviderError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "provider_error", "message": err.Error()})
	case orchestrator.IsAdjudicationParseError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "adjudication_parse_error", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
	}
}
