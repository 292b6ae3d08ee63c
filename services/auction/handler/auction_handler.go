package handler

import (
	"net/http"
	"strconv"

	"auctioner/internal/models"
	"auctioner/internal/simulator"
	"auctioner/services/auction/helpers"
	"auctioner/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=auction_handler.go -destination=mock_auction_service.go -package=handler

// currentSession is the path id that addresses the latest session
const currentSession = "current"

type AuctionServiceInterface interface {
	StartSession(caller models.Caller, sessionID, playerID string) (models.Snapshot, error)
	Pause(caller models.Caller, sessionID string) (models.Snapshot, error)
	PlaceBid(caller models.Caller, req models.BidRequest) (models.Snapshot, error)
	MarkSold(caller models.Caller, sessionID string) (models.Snapshot, error)
	MarkUnsold(caller models.Caller, sessionID string) (models.Snapshot, error)
	Advance(caller models.Caller, sessionID, playerID string) (models.Snapshot, error)
	Finish(caller models.Caller, sessionID string) (models.Snapshot, error)
	Cancel(caller models.Caller, sessionID string) (models.Snapshot, error)
	Snapshot(sessionID string) (models.Snapshot, error)
	Players(eligibleOnly bool) []models.Player
	Teams() []models.Team
	SimulateMatch(teamA, teamB string, seed *uint64) (simulator.MatchResult, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateSessionHandler handles POST /sessions
func (h *AuctionHandler) CreateSessionHandler(c *gin.Context) {
	var req helpers.StartSessionRequest
	if !bindOptional(c, "CreateSessionHandler", &req) {
		return
	}

	snap, err := h.service.StartSession(helpers.Caller(c), "", req.PlayerID)
	h.writeSnapshot(c, "CreateSessionHandler", snap, err, http.StatusCreated, "session created")
}

// StartSessionHandler handles POST /sessions/:session_id/start
func (h *AuctionHandler) StartSessionHandler(c *gin.Context) {
	var req helpers.StartSessionRequest
	if !bindOptional(c, "StartSessionHandler", &req) {
		return
	}

	snap, err := h.service.StartSession(helpers.Caller(c), c.Param("session_id"), req.PlayerID)
	h.writeSnapshot(c, "StartSessionHandler", snap, err, http.StatusOK, "session started")
}

// PauseHandler handles POST /sessions/:session_id/pause
func (h *AuctionHandler) PauseHandler(c *gin.Context) {
	snap, err := h.service.Pause(helpers.Caller(c), c.Param("session_id"))
	h.writeSnapshot(c, "PauseHandler", snap, err, http.StatusOK, "session paused")
}

// CancelHandler handles POST /sessions/:session_id/cancel
func (h *AuctionHandler) CancelHandler(c *gin.Context) {
	snap, err := h.service.Cancel(helpers.Caller(c), c.Param("session_id"))
	h.writeSnapshot(c, "CancelHandler", snap, err, http.StatusOK, "lot cancelled")
}

// PlaceBidHandler handles POST /sessions/:session_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	caller := helpers.Caller(c)
	snap, err := h.service.PlaceBid(caller, models.BidRequest{
		SessionID: c.Param("session_id"),
		TeamID:    req.TeamID,
		Amount:    req.Amount,
		Version:   req.Version,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message, err)
		utils.Warn("PlaceBidHandler: bid rejected", map[string]any{
			"handler":    "PlaceBidHandler",
			"session_id": c.Param("session_id"),
			"user_id":    caller.UserID,
			"team_id":    req.TeamID,
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, snap, "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"session_id": snap.SessionID,
		"user_id":    caller.UserID,
		"team_id":    req.TeamID,
		"amount":     req.Amount,
		"version":    snap.Version,
	})
}

// MarkSoldHandler handles POST /sessions/:session_id/sold
func (h *AuctionHandler) MarkSoldHandler(c *gin.Context) {
	snap, err := h.service.MarkSold(helpers.Caller(c), c.Param("session_id"))
	h.writeSnapshot(c, "MarkSoldHandler", snap, err, http.StatusOK, "player sold")
}

// MarkUnsoldHandler handles POST /sessions/:session_id/unsold
func (h *AuctionHandler) MarkUnsoldHandler(c *gin.Context) {
	snap, err := h.service.MarkUnsold(helpers.Caller(c), c.Param("session_id"))
	h.writeSnapshot(c, "MarkUnsoldHandler", snap, err, http.StatusOK, "player unsold")
}

// AdvanceHandler handles POST /sessions/:session_id/advance
func (h *AuctionHandler) AdvanceHandler(c *gin.Context) {
	var req helpers.AdvanceRequest
	if !bindOptional(c, "AdvanceHandler", &req) {
		return
	}

	snap, err := h.service.Advance(helpers.Caller(c), c.Param("session_id"), req.PlayerID)
	h.writeSnapshot(c, "AdvanceHandler", snap, err, http.StatusOK, "lot advanced")
}

// FinishHandler handles POST /sessions/:session_id/finish
func (h *AuctionHandler) FinishHandler(c *gin.Context) {
	snap, err := h.service.Finish(helpers.Caller(c), c.Param("session_id"))
	h.writeSnapshot(c, "FinishHandler", snap, err, http.StatusOK, "session finished")
}

// GetSessionHandler handles GET /sessions/:session_id; "current" is the latest session
func (h *AuctionHandler) GetSessionHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == currentSession {
		sessionID = ""
	}

	snap, err := h.service.Snapshot(sessionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message, err)
		utils.Warn("GetSessionHandler: error retrieving session", map[string]any{"session_id": c.Param("session_id"), "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, snap, "session retrieved successfully")
}

// ListPlayersHandler handles GET /players?eligible=true
func (h *AuctionHandler) ListPlayersHandler(c *gin.Context) {
	eligible, _ := strconv.ParseBool(c.Query("eligible"))
	players := h.service.Players(eligible)
	if players == nil {
		players = []models.Player{}
	}

	utils.JSONResponse(c, http.StatusOK, players, "players retrieved successfully")
	helpers.LogSuccess("ListPlayersHandler", "players retrieved successfully", map[string]any{
		"eligible_only": eligible,
		"count":         len(players),
	})
}

// ListTeamsHandler handles GET /teams
func (h *AuctionHandler) ListTeamsHandler(c *gin.Context) {
	teams := h.service.Teams()
	if teams == nil {
		teams = []models.Team{}
	}

	utils.JSONResponse(c, http.StatusOK, teams, "teams retrieved successfully")
	helpers.LogSuccess("ListTeamsHandler", "teams retrieved successfully", map[string]any{"count": len(teams)})
}

// SimulateMatchHandler handles POST /matches/simulate
func (h *AuctionHandler) SimulateMatchHandler(c *gin.Context) {
	var req helpers.SimulateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SimulateMatchHandler", err)
		return
	}

	result, err := h.service.SimulateMatch(req.TeamA, req.TeamB, req.Seed)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message, err)
		utils.Warn("SimulateMatchHandler: simulation failed", map[string]any{"team_a": req.TeamA, "team_b": req.TeamB, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, result, "match simulated successfully")
	helpers.LogSuccess("SimulateMatchHandler", "match simulated successfully", map[string]any{
		"team_a": req.TeamA,
		"team_b": req.TeamB,
		"winner": result.WinnerID,
	})
}

func (h *AuctionHandler) writeSnapshot(c *gin.Context, handlerName string, snap models.Snapshot, err error, okStatus int, message string) {
	if err != nil {
		status, errMessage := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, errMessage, err)
		utils.Warn(handlerName+": request rejected", map[string]any{
			"handler":    handlerName,
			"session_id": c.Param("session_id"),
			"user_id":    helpers.Caller(c).UserID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, okStatus, snap, message)
	helpers.LogSuccess(handlerName, message, map[string]any{
		"session_id": snap.SessionID,
		"status":     snap.Status,
		"version":    snap.Version,
	})
}

// bindOptional binds a JSON body when one was sent
func bindOptional(c *gin.Context, handlerName string, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		helpers.HandleBindError(c, handlerName, err)
		return false
	}
	return true
}
