// Package api exposes submission verification, level listings and the
// solution leaderboard over HTTP, next to the Prometheus /metrics endpoint.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/beamforge/internal/storage"
	"github.com/vovakirdan/beamforge/internal/verify"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	maxBodyBytes = 1 << 20
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// OutcomeResponse reports the verdict on a submission.
type OutcomeResponse struct {
	ID       string `json:"id"`
	Level    string `json:"level"`
	Player   string `json:"player"`
	Accepted bool   `json:"accepted"`
	Result   string `json:"result"`
	Cost     int    `json:"cost"`
	Latency  int    `json:"latency"`
	Ticks    uint64 `json:"ticks"`
	Hash     string `json:"hash"`
	Saved    bool   `json:"saved"`
}

// LevelResponse describes one level of the campaign.
type LevelResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Parents []string `json:"parents,omitempty"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Cases   int      `json:"cases"`
}

// SolutionResponse is one leaderboard row.
type SolutionResponse struct {
	Rank      int       `json:"rank"`
	ID        string    `json:"id"`
	Player    string    `json:"player"`
	Cost      int       `json:"cost"`
	Latency   int       `json:"latency"`
	Ticks     uint64    `json:"ticks"`
	CreatedAt time.Time `json:"created_at"`
}

// Handlers serves the HTTP API.
type Handlers struct {
	verifier *verify.Verifier
	store    *storage.Store
	logger   *log.Logger
}

// NewHandlers creates handlers over v. store may be nil, in which case the
// leaderboard routes answer 503.
func NewHandlers(v *verify.Verifier, store *storage.Store, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handlers{verifier: v, store: store, logger: logger}
}

// Router builds the gin engine with every route registered.
func (h *Handlers) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "beamforge"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.GET("/levels", h.HandleListLevels)
	v1.GET("/levels/:id/solutions", h.HandleTopSolutions)
	v1.POST("/submissions", h.HandleSubmit)
	v1.GET("/submissions/:id", h.HandleGetSolution)
	return r
}

// HandleSubmit handles POST /v1/submissions. The body is a YAML submission
// file as written by "beamforge sign".
//
// Responses: 201 accepted and recorded, 200 graded but unsolved, 400
// malformed submission, 401 bad signature, 404 unknown level, 422 board
// rejected by the level, 500 storage failure.
func (h *Handlers) HandleSubmit(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID)

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read body", Code: "INVALID_REQUEST"})
		return
	}
	sub, err := verify.DecodeSubmission(data)
	if err != nil {
		logger.Warn("invalid submission", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}

	out, err := h.verifier.Verify(sub)
	if err != nil {
		status, code := http.StatusUnprocessableEntity, "INVALID_BOARD"
		switch {
		case errors.Is(err, verify.ErrBadSignature):
			status, code = http.StatusUnauthorized, "BAD_SIGNATURE"
		case errors.Is(err, verify.ErrUnknownLevel):
			status, code = http.StatusNotFound, "UNKNOWN_LEVEL"
		case out.ID != "":
			// Graded and accepted, but the record could not be written.
			status, code = http.StatusInternalServerError, "PERSIST_FAILED"
			logger.Error("solution not recorded", "id", out.ID, "error", err)
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	status := http.StatusOK
	if out.Accepted() {
		status = http.StatusCreated
	}
	c.JSON(status, OutcomeResponse{
		ID:       out.ID,
		Level:    out.LevelID,
		Player:   out.Player,
		Accepted: out.Accepted(),
		Result:   out.Result.String(),
		Cost:     out.Cost,
		Latency:  out.Latency,
		Ticks:    out.Result.Ticks,
		Hash:     strconv.FormatUint(out.Hash, 16),
		Saved:    out.Saved,
	})
}

// HandleListLevels handles GET /v1/levels.
func (h *Handlers) HandleListLevels(c *gin.Context) {
	cat := h.verifier.Catalog()
	if cat == nil {
		c.JSON(http.StatusOK, []LevelResponse{})
		return
	}

	resp := make([]LevelResponse, 0, cat.Len())
	for _, d := range cat.All() {
		resp = append(resp, LevelResponse{
			ID:      d.ID,
			Name:    d.Name,
			Parents: d.Parents,
			Width:   d.Width,
			Height:  d.Height,
			Cases:   len(d.Spec.Cases),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTopSolutions handles GET /v1/levels/:id/solutions?limit=N.
func (h *Handlers) HandleTopSolutions(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "no solution store", Code: "NO_STORE"})
		return
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer", Code: "INVALID_LIMIT"})
			return
		}
		limit = min(n, maxLimit)
	}

	sols, err := h.store.TopSolutions(c.Param("id"), limit)
	if err != nil {
		h.logger.Error("leaderboard query failed", "level", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "leaderboard unavailable", Code: "STORE_FAILED"})
		return
	}

	resp := make([]SolutionResponse, len(sols))
	for i, s := range sols {
		resp[i] = SolutionResponse{
			Rank:      i + 1,
			ID:        s.SubmissionID,
			Player:    s.Player,
			Cost:      s.Cost,
			Latency:   s.Latency,
			Ticks:     s.Ticks,
			CreatedAt: s.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetSolution handles GET /v1/submissions/:id and returns the stored
// board file of an accepted submission.
func (h *Handlers) HandleGetSolution(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "no solution store", Code: "NO_STORE"})
		return
	}

	sol, err := h.store.SolutionByID(c.Param("id"))
	switch {
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "lookup failed", Code: "STORE_FAILED"})
	case sol == nil:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no such submission", Code: "NOT_FOUND"})
	default:
		c.Data(http.StatusOK, "application/yaml", sol.Board)
	}
}

// getOrCreateRequestID extracts the X-Request-ID header or generates one.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
