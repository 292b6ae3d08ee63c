package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"
	"auctioner/internal/simulator"
	"auctioner/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var testAdmin = models.Caller{UserID: "u-admin", Role: models.RoleAdmin}

func newTestRouter(t *testing.T, caller models.Caller) (*gin.Engine, *MockAuctionServiceInterface) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(helpers.CallerKey, caller) })

	router.POST("/sessions", h.CreateSessionHandler)
	sessions := router.Group("/sessions/:session_id")
	{
		sessions.GET("", h.GetSessionHandler)
		sessions.POST("/start", h.StartSessionHandler)
		sessions.POST("/pause", h.PauseHandler)
		sessions.POST("/cancel", h.CancelHandler)
		sessions.POST("/bids", h.PlaceBidHandler)
		sessions.POST("/sold", h.MarkSoldHandler)
		sessions.POST("/unsold", h.MarkUnsoldHandler)
		sessions.POST("/advance", h.AdvanceHandler)
		sessions.POST("/finish", h.FinishHandler)
	}
	router.GET("/players", h.ListPlayersHandler)
	router.GET("/teams", h.ListTeamsHandler)
	router.POST("/matches/simulate", h.SimulateMatchHandler)
	return router, mockService
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func testSnapshot(version int64, status models.AuctionStatus) models.Snapshot {
	return models.Snapshot{
		SessionID:     "s1",
		Version:       version,
		Status:        status,
		CurrentPlayer: &models.Player{PlayerID: "p1", BasePrice: 20000},
		History:       []models.Bid{},
	}
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	router, mockService := newTestRouter(t, testAdmin)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		expectedReason string
	}{
		{
			name:        "success_valid_bid",
			requestBody: helpers.PlaceBidRequest{TeamID: "team-b", Amount: 60000, Version: 3},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(testAdmin, models.BidRequest{SessionID: "s1", TeamID: "team-b", Amount: 60000, Version: 3}).
					Return(testSnapshot(4, models.StatusInProgress), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
			expectedReason: string(biddingerrors.ReasonInvalidBid),
		},
		{
			name:           "missing_team_id",
			requestBody:    helpers.PlaceBidRequest{Amount: 60000},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "negative_amount",
			requestBody: helpers.PlaceBidRequest{TeamID: "team-b", Amount: -10},
			mockSetup: func() {
				mockService.EXPECT().PlaceBid(gomock.Any(), models.BidRequest{SessionID: "s1", TeamID: "team-b", Amount: -10}).
					Return(models.Snapshot{}, fmt.Errorf("service: rules: %w", biddingerrors.ErrBidTooLow))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid amount too low",
			expectedReason: string(biddingerrors.ReasonBidTooLow),
		},
		{
			name:        "service_bid_too_low",
			requestBody: helpers.PlaceBidRequest{TeamID: "team-b", Amount: 55000},
			mockSetup: func() {
				mockService.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(models.Snapshot{}, fmt.Errorf("service: %w", biddingerrors.ErrBidTooLow))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid amount too low",
			expectedReason: string(biddingerrors.ReasonBidTooLow),
		},
		{
			name:        "service_budget_exceeded",
			requestBody: helpers.PlaceBidRequest{TeamID: "team-a", Amount: 60000},
			mockSetup: func() {
				mockService.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(models.Snapshot{}, biddingerrors.ErrBudgetExceeded)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    "team budget exceeded",
			expectedReason: string(biddingerrors.ReasonBudgetExceeded),
		},
		{
			name:        "service_outbid",
			requestBody: helpers.PlaceBidRequest{TeamID: "team-b", Amount: 60000, Version: 1},
			mockSetup: func() {
				mockService.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(models.Snapshot{}, biddingerrors.ErrOutbid)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "a competing bid was accepted first",
			expectedReason: string(biddingerrors.ReasonOutbid),
		},
		{
			name:        "service_rate_limited",
			requestBody: helpers.PlaceBidRequest{TeamID: "team-b", Amount: 60000},
			mockSetup: func() {
				mockService.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(models.Snapshot{}, biddingerrors.ErrRateLimited)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedMsg:    "too many bids",
			expectedReason: string(biddingerrors.ReasonRateLimited),
		},
		{
			name:        "service_generic_error",
			requestBody: helpers.PlaceBidRequest{TeamID: "team-b", Amount: 60000},
			mockSetup: func() {
				mockService.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(models.Snapshot{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
			expectedReason: string(biddingerrors.ReasonInternal),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w, resp := doRequest(t, router, http.MethodPost, "/sessions/s1/bids", tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.expectedReason != "" {
				require.Equal(t, tc.expectedReason, resp["reason"])
			}

			if w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.Equal(t, "s1", data["session_id"])
				require.Equal(t, 4.0, data["version"])
			}
		})
	}
}

// Test the lifecycle handlers that only carry a session id
func TestLifecycleHandlers(t *testing.T) {
	router, mockService := newTestRouter(t, testAdmin)

	tests := []struct {
		name           string
		path           string
		body           any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "create_session",
			path: "/sessions",
			body: helpers.StartSessionRequest{PlayerID: "p1"},
			mockSetup: func() {
				mockService.EXPECT().StartSession(testAdmin, "", "p1").Return(testSnapshot(1, models.StatusInProgress), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "session created",
		},
		{
			name: "create_session_without_body",
			path: "/sessions",
			mockSetup: func() {
				mockService.EXPECT().StartSession(testAdmin, "", "").Return(testSnapshot(1, models.StatusInProgress), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "session created",
		},
		{
			name: "start_existing",
			path: "/sessions/s1/start",
			body: helpers.StartSessionRequest{PlayerID: "p2"},
			mockSetup: func() {
				mockService.EXPECT().StartSession(testAdmin, "s1", "p2").Return(testSnapshot(5, models.StatusInProgress), nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "session started",
		},
		{
			name:           "start_with_bad_body",
			path:           "/sessions/s1/start",
			body:           `{"player_id": 7}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "pause_invalid_transition",
			path: "/sessions/s1/pause",
			mockSetup: func() {
				mockService.EXPECT().Pause(testAdmin, "s1").Return(models.Snapshot{}, biddingerrors.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "operation not allowed",
		},
		{
			name: "cancel",
			path: "/sessions/s1/cancel",
			mockSetup: func() {
				mockService.EXPECT().Cancel(testAdmin, "s1").Return(testSnapshot(6, models.StatusPaused), nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "lot cancelled",
		},
		{
			name: "cancel_resolved_lot",
			path: "/sessions/s1/cancel",
			mockSetup: func() {
				mockService.EXPECT().Cancel(testAdmin, "s1").Return(models.Snapshot{}, fmt.Errorf("service: %w - cancel from player_sold", biddingerrors.ErrInvalidTransition))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "operation not allowed",
		},
		{
			name: "sold",
			path: "/sessions/s1/sold",
			mockSetup: func() {
				mockService.EXPECT().MarkSold(testAdmin, "s1").Return(testSnapshot(6, models.StatusPlayerSold), nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "player sold",
		},
		{
			name: "sold_without_bid",
			path: "/sessions/s1/sold",
			mockSetup: func() {
				mockService.EXPECT().MarkSold(testAdmin, "s1").Return(models.Snapshot{}, biddingerrors.ErrNoBidToSell)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "operation not allowed",
		},
		{
			name: "unsold_not_admin",
			path: "/sessions/s1/unsold",
			mockSetup: func() {
				mockService.EXPECT().MarkUnsold(testAdmin, "s1").Return(models.Snapshot{}, biddingerrors.ErrNotAuthorized)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "administrator capability required",
		},
		{
			name: "advance",
			path: "/sessions/s1/advance",
			body: helpers.AdvanceRequest{PlayerID: "p2"},
			mockSetup: func() {
				mockService.EXPECT().Advance(testAdmin, "s1", "p2").Return(testSnapshot(7, models.StatusInProgress), nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "lot advanced",
		},
		{
			name: "finish_unknown_session",
			path: "/sessions/nope/finish",
			mockSetup: func() {
				mockService.EXPECT().Finish(testAdmin, "nope").Return(models.Snapshot{}, biddingerrors.ErrSessionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction session not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w, resp := doRequest(t, router, http.MethodPost, tc.path, tc.body)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

// Test GetSessionHandler
func TestGetSessionHandler(t *testing.T) {
	router, mockService := newTestRouter(t, models.Caller{UserID: "u-view", Role: models.RolePlayer})

	mockService.EXPECT().Snapshot("s1").Return(testSnapshot(3, models.StatusPaused), nil)
	w, resp := doRequest(t, router, http.MethodGet, "/sessions/s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	require.Equal(t, string(models.StatusPaused), data["status"])

	mockService.EXPECT().Snapshot("").Return(testSnapshot(3, models.StatusPaused), nil)
	w, _ = doRequest(t, router, http.MethodGet, "/sessions/current", nil)
	require.Equal(t, http.StatusOK, w.Code)

	mockService.EXPECT().Snapshot("").Return(models.Snapshot{}, fmt.Errorf("service: %w", biddingerrors.ErrSessionNotFound))
	w, resp = doRequest(t, router, http.MethodGet, "/sessions/current", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, string(biddingerrors.ReasonSessionNotFound), resp["reason"])
}

// Test ListPlayersHandler and ListTeamsHandler
func TestRosterHandlers(t *testing.T) {
	router, mockService := newTestRouter(t, testAdmin)

	mockService.EXPECT().Players(true).Return([]models.Player{{PlayerID: "p1"}, {PlayerID: "p2"}})
	w, resp := doRequest(t, router, http.MethodGet, "/players?eligible=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 2)

	mockService.EXPECT().Players(false).Return(nil)
	w, resp = doRequest(t, router, http.MethodGet, "/players", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []any{}, resp["data"])

	mockService.EXPECT().Teams().Return([]models.Team{{TeamID: "team-a", BudgetCeiling: 1000000}})
	w, resp = doRequest(t, router, http.MethodGet, "/teams", nil)
	require.Equal(t, http.StatusOK, w.Code)
	teams := resp["data"].([]any)
	require.Equal(t, "team-a", teams[0].(map[string]any)["team_id"])
}

// Test SimulateMatchHandler
func TestSimulateMatchHandler(t *testing.T) {
	router, mockService := newTestRouter(t, testAdmin)

	seed := uint64(42)
	mockService.EXPECT().SimulateMatch("team-a", "team-b", &seed).
		Return(simulator.MatchResult{WinnerID: "team-b", Commentary: []string{"0.1: A scores 4 run(s) off B."}}, nil)
	w, resp := doRequest(t, router, http.MethodPost, "/matches/simulate", helpers.SimulateMatchRequest{TeamA: "team-a", TeamB: "team-b", Seed: &seed})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "team-b", resp["data"].(map[string]any)["winner_id"])

	w, _ = doRequest(t, router, http.MethodPost, "/matches/simulate", helpers.SimulateMatchRequest{TeamA: "team-a", TeamB: "team-a"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	mockService.EXPECT().SimulateMatch("team-a", "team-c", nil).
		Return(simulator.MatchResult{}, fmt.Errorf("service: %w", biddingerrors.ErrEmptyRoster))
	w, resp = doRequest(t, router, http.MethodPost, "/matches/simulate", helpers.SimulateMatchRequest{TeamA: "team-a", TeamB: "team-c"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, string(biddingerrors.ReasonEmptyRoster), resp["reason"])
}
