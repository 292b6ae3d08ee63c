package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"auctioner/internal/auction"
	authority "auctioner/internal/authorityService"
	"auctioner/internal/models"
	"auctioner/internal/repository"
	"auctioner/internal/server"
	"auctioner/internal/server/ws"

	"github.com/gin-gonic/gin"
)

var (
	admin    = models.Caller{UserID: "u-admin", Role: models.RoleAdmin}
	managerA = models.Caller{UserID: "u-a", Role: models.RoleTeamManager, TeamID: "team-a"}
	managerB = models.Caller{UserID: "u-b", Role: models.RoleTeamManager, TeamID: "team-b"}
	viewer   = models.Caller{UserID: "u-view", Role: models.RolePlayer}
)

// seedPlayers returns three approved players in auction order
func seedPlayers() []models.Player {
	return []models.Player{
		{PlayerID: "p1", Name: "Opener", Role: models.RoleBatsman, BasePrice: 50000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 40, StrikeRate: 135}},
		{PlayerID: "p2", Name: "Seamer", Role: models.RoleBowler, BasePrice: 40000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 10, StrikeRate: 90, WicketsTaken: 60, EconomyRate: 7}},
		{PlayerID: "p3", Name: "Finisher", Role: models.RoleAllRounder, BasePrice: 30000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 28, StrikeRate: 150, WicketsTaken: 30, EconomyRate: 8}},
	}
}

// SetupTestRouter initializes the router with a seeded in-memory repository for integration testing.
// team-a has 950,000 of its 1,000,000 ceiling spent; team-b has nothing spent.
func SetupTestRouter() (*gin.Engine, *ws.Hub) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	for _, p := range seedPlayers() {
		repo.AddPlayer(p)
	}
	repo.AddTeam(models.Team{TeamID: "team-a", Name: "A", BudgetSpent: 950000, BudgetCeiling: 1000000})
	repo.AddTeam(models.Team{TeamID: "team-b", Name: "B", BudgetCeiling: 1000000})

	hub := ws.NewHub()
	service := authority.NewAuctionService(repo, authority.Options{
		Rules:         auction.Rules{Step: 10000},
		BidsPerMinute: 30,
		Publisher:     hub,
	})
	router := server.SetupRouter(service, hub)
	return router, hub
}

// ExecuteRequestAndParse executes an HTTP request on the given router as caller and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, caller models.Caller, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(models.HeaderUserID, caller.UserID)
	req.Header.Set(models.HeaderUserRole, string(caller.Role))
	if caller.TeamID != "" {
		req.Header.Set(models.HeaderTeamID, caller.TeamID)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}
