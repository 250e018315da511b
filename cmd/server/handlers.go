package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/matchsim/internal/apperr"
	"github.com/stitts-dev/matchsim/internal/config"
	"github.com/stitts-dev/matchsim/internal/engine"
	"github.com/stitts-dev/matchsim/internal/matchstate"
	"github.com/stitts-dev/matchsim/internal/matchtype"
	"github.com/stitts-dev/matchsim/internal/repository"
	"github.com/stitts-dev/matchsim/internal/sink"
	"github.com/stitts-dev/matchsim/internal/streaming"
)

// Handlers bundles everything the HTTP layer needs, grounded on the
// teacher's Handlers struct shape in realtime-service/internal/api/handlers.
type Handlers struct {
	cfg     *config.Config
	db      *gorm.DB
	redis   *redis.Client
	repo    repository.Repository
	catalog *repository.InMemory
	sink    sink.Sink
	logger  *logrus.Logger
}

func NewHandlers(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, repo repository.Repository, catalog *repository.InMemory, resultSink sink.Sink, logger *logrus.Logger) *Handlers {
	return &Handlers{cfg: cfg, db: db, redis: redisClient, repo: repo, catalog: catalog, sink: resultSink, logger: logger}
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "matchsim",
	})
}

func (h *Handlers) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "database connection failed"})
		return
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "redis connection failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": time.Now().UTC()})
}

// simulateRequest is the JSON body shared by every simulate-* endpoint.
type simulateRequest struct {
	Home       matchtype.MatchSide `json:"home"`
	Away       matchtype.MatchSide `json:"away"`
	Seed       *uint64             `json:"seed,omitempty"`
	Commentary *bool               `json:"commentary,omitempty"`
	Speed      string              `json:"speed,omitempty"`
}

func (h *Handlers) newEngine(c *gin.Context, matchID uuid.UUID, req simulateRequest) (*engine.Engine, error) {
	home, err := h.resolveSide(c.Request.Context(), req.Home)
	if err != nil {
		return nil, err
	}
	away, err := h.resolveSide(c.Request.Context(), req.Away)
	if err != nil {
		return nil, err
	}

	opts := engine.Options{
		StoppageBiasMax:  h.cfg.StoppageBiasMax,
		Commentary:       h.cfg.DefaultCommentary,
		AllowAutoLineup:  h.cfg.AllowAutoLineup,
		MaxSubstitutions: h.cfg.MaxSubstitutions,
		TickBudget:       h.cfg.TickBudget,
	}
	if req.Commentary != nil {
		opts.Commentary = *req.Commentary
	}

	input := matchtype.MatchInput{
		MatchID: matchID,
		Home:    home,
		Away:    away,
		Seed:    req.Seed,
	}

	return engine.New(input, opts, h.logger)
}

// resolveSide fills in a team/formation submitted by reference only (an id
// with no players, or a name with no slots) from the catalog repository, so
// callers can register a roster once via the admin endpoints and simulate
// against it by id instead of re-sending the full JSON every request.
func (h *Handlers) resolveSide(ctx context.Context, side matchtype.MatchSide) (matchtype.MatchSide, error) {
	if h.repo == nil {
		return side, nil
	}

	if len(side.Team.Players) == 0 && side.Team.ID != uuid.Nil {
		team, err := h.repo.FetchTeam(ctx, side.Team.ID)
		if err != nil {
			return side, err
		}
		side.Team = team
	}

	if side.Formation.Name != "" && formationIsReferenceOnly(side.Formation) {
		formation, err := h.repo.FetchFormation(ctx, side.Formation.Name)
		if err != nil {
			return side, err
		}
		side.Formation = formation
	}

	return side, nil
}

func formationIsReferenceOnly(f matchtype.Formation) bool {
	for _, slot := range f.Slots {
		if slot.Position != "" {
			return false
		}
	}
	return true
}

// SimulateStream handles the SSE transport, `/matches/:id/simulate-stream`.
func (h *Handlers) SimulateStream(c *gin.Context) {
	matchID, req, ok := h.bindSimulation(c)
	if !ok {
		return
	}

	eng, err := h.newEngine(c, matchID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	pacing := streaming.Pacing(req.Speed)
	if pacing == "" {
		pacing = streaming.Pacing(h.cfg.DefaultSpeed)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.SimulationBudget)
	defer cancel()

	ticks := eng.Run(ctx)
	streaming.ServeSSE(c, pacing, eng.Lineup(), ticks, h.logger)
}

// SimulateWebSocket handles the websocket transport, `/matches/:id/ws`.
func (h *Handlers) SimulateWebSocket(c *gin.Context) {
	matchID, req, ok := h.bindSimulation(c)
	if !ok {
		return
	}

	eng, err := h.newEngine(c, matchID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	pacing := streaming.Pacing(req.Speed)
	if pacing == "" {
		pacing = streaming.Pacing(h.cfg.DefaultSpeed)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.SimulationBudget)
	defer cancel()

	ticks := eng.Run(ctx)
	streaming.ServeWebSocket(c, pacing, eng.Lineup(), ticks, h.logger)
}

// SimulateInstant runs the match to completion and returns it as one JSON
// batch document (streaming.ToDocument), per spec §6's "instant" speed mode.
func (h *Handlers) SimulateInstant(c *gin.Context) {
	matchID, req, ok := h.bindSimulation(c)
	if !ok {
		return
	}

	eng, err := h.newEngine(c, matchID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.SimulationBudget)
	defer cancel()

	ticks := eng.Run(ctx)
	batch := streaming.RunToCompletion(ctx, eng.Lineup(), ticks)

	if h.sink != nil {
		h.persistBatch(ctx, matchID, batch)
	}

	c.JSON(http.StatusOK, streaming.ToDocument(matchID, eng.Lineup(), batch))
}

// AdminSimulateAndDiscard runs a match at instant speed without returning
// the frame log, for load-testing the engine without a real caller.
func (h *Handlers) AdminSimulateAndDiscard(c *gin.Context) {
	matchID, req, ok := h.bindSimulation(c)
	if !ok {
		return
	}

	eng, err := h.newEngine(c, matchID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.SimulationBudget)
	defer cancel()

	ticks := eng.Run(ctx)
	batch := streaming.RunToCompletion(ctx, eng.Lineup(), ticks)

	c.JSON(http.StatusOK, gin.H{"frames_produced": len(batch.Frames)})
}

// GetResult serves a previously persisted result, `/matches/:id/result`.
func (h *Handlers) GetResult(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	if h.sink == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "result persistence disabled"})
		return
	}

	result, err := h.sink.Fetch(c.Request.Context(), matchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegisterTeam adds a team to the in-memory catalog so later simulate
// requests can refer to it by id instead of embedding the full roster.
func (h *Handlers) RegisterTeam(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "team catalog disabled"})
		return
	}

	var team matchtype.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}

	h.catalog.PutTeam(team)
	c.JSON(http.StatusOK, gin.H{"id": team.ID})
}

// RegisterFormation adds a formation to the in-memory catalog, keyed by name.
func (h *Handlers) RegisterFormation(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "formation catalog disabled"})
		return
	}

	var formation matchtype.Formation
	if err := c.ShouldBindJSON(&formation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if formation.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formation name is required"})
		return
	}

	h.catalog.PutFormation(formation)
	c.JSON(http.StatusOK, gin.H{"name": formation.Name})
}

func (h *Handlers) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "matchsim",
		"status":  "running",
	})
}

func (h *Handlers) bindSimulation(c *gin.Context) (uuid.UUID, simulateRequest, bool) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return uuid.Nil, simulateRequest{}, false
	}

	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, simulateRequest{}, false
	}

	return matchID, req, true
}

func parseMatchID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) persistBatch(ctx context.Context, matchID uuid.UUID, batch streaming.Batch) {
	var events []matchstate.Event
	var score matchstate.Score
	var homeStats, awayStats matchstate.Stats
	finished := false

	for _, f := range batch.Frames {
		data, ok := f.Data.(streaming.MinuteData)
		if !ok || f.Type != streaming.FrameFullTime {
			continue
		}
		finished = true
		score = data.Score
		homeStats = data.HomeStats
		awayStats = data.AwayStats
	}
	if !finished {
		return
	}
	for _, f := range batch.Frames {
		if data, ok := f.Data.(streaming.MinuteData); ok {
			events = append(events, data.Events...)
		}
	}

	result := sink.Result{
		MatchID:    matchID,
		FinishedAt: time.Now().UTC(),
		Score:      score,
		HomeStats:  homeStats,
		AwayStats:  awayStats,
		Events:     events,
	}

	if err := h.sink.Store(ctx, result); err != nil {
		h.logger.WithError(err).WithField("match_id", matchID).Error("failed to persist match result")
	}
}

func writeEngineError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperr.CodePrecondition, apperr.CodeInvalidLineup:
		status = http.StatusUnprocessableEntity
	case apperr.CodeInvariant:
		status = http.StatusInternalServerError
	}

	body := gin.H{"code": code, "error": err.Error()}
	if reason := apperr.ReasonOf(err); reason != "" {
		body["reason"] = reason
	}
	c.JSON(status, body)
}
