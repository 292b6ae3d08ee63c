package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"
	"auctioner/utils"
)

const currentSession = "current"

// Client talks to the auction authority over HTTP on behalf of one caller.
// It satisfies auction.Authority and auction.Roster.
type Client struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

func NewClient(baseURL string, caller models.Caller) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: map[string]string{
			"Content-Type":        "application/json",
			models.HeaderUserID:   caller.UserID,
			models.HeaderUserRole: string(caller.Role),
		},
	}
	if caller.TeamID != "" {
		c.headers[models.HeaderTeamID] = caller.TeamID
	}
	return c
}

// SetTimeout bounds every request; per-call deadlines come from the context
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

func (c *Client) StartSession(ctx context.Context, sessionID, playerID string) (models.Snapshot, error) {
	path := "/sessions"
	if sessionID != "" {
		path = sessionPath(sessionID, "start")
	}
	var snap models.Snapshot
	err := c.do(ctx, http.MethodPost, path, map[string]string{"player_id": playerID}, &snap)
	return snap, err
}

func (c *Client) Pause(ctx context.Context, sessionID string) (models.Snapshot, error) {
	return c.sessionCommand(ctx, sessionID, "pause", nil)
}

func (c *Client) SubmitBid(ctx context.Context, req models.BidRequest) (models.Snapshot, error) {
	return c.sessionCommand(ctx, req.SessionID, "bids", map[string]any{
		"team_id": req.TeamID,
		"amount":  req.Amount,
		"version": req.Version,
	})
}

func (c *Client) MarkSold(ctx context.Context, sessionID string) (models.Snapshot, error) {
	return c.sessionCommand(ctx, sessionID, "sold", nil)
}

func (c *Client) MarkUnsold(ctx context.Context, sessionID string) (models.Snapshot, error) {
	return c.sessionCommand(ctx, sessionID, "unsold", nil)
}

func (c *Client) Advance(ctx context.Context, sessionID, playerID string) (models.Snapshot, error) {
	return c.sessionCommand(ctx, sessionID, "advance", map[string]string{"player_id": playerID})
}

func (c *Client) Finish(ctx context.Context, sessionID string) (models.Snapshot, error) {
	return c.sessionCommand(ctx, sessionID, "finish", nil)
}

// FetchSnapshot reads a session; an empty id reads the latest one
func (c *Client) FetchSnapshot(ctx context.Context, sessionID string) (models.Snapshot, error) {
	if sessionID == "" {
		sessionID = currentSession
	}
	var snap models.Snapshot
	err := c.do(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &snap)
	return snap, err
}

func (c *Client) EligiblePlayers(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	err := c.do(ctx, http.MethodGet, "/players?eligible=true", nil, &players)
	return players, err
}

func (c *Client) Teams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := c.do(ctx, http.MethodGet, "/teams", nil, &teams)
	return teams, err
}

func (c *Client) sessionCommand(ctx context.Context, sessionID, action string, body any) (models.Snapshot, error) {
	var snap models.Snapshot
	err := c.do(ctx, http.MethodPost, sessionPath(sessionID, action), body, &snap)
	return snap, err
}

// do sends one request and decodes the envelope's data into out.
// Network failures and non-domain server errors wrap ErrTransport; domain
// rejections come back as *biddingerrors.RejectionError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote: failed to create request: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w: %w", method, path, biddingerrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read %s %s: %w: %w", method, path, biddingerrors.ErrTransport, err)
	}

	var env utils.Envelope[json.RawMessage]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && env.Reason != "" && env.Reason != biddingerrors.ReasonInternal {
			return &biddingerrors.RejectionError{Reason: env.Reason, Message: env.Message, Status: resp.StatusCode}
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("remote: %s %s returned %d: %w", method, path, resp.StatusCode, biddingerrors.ErrTransport)
		}
		return &biddingerrors.RejectionError{Reason: biddingerrors.ReasonInternal, Message: strings.TrimSpace(string(raw)), Status: resp.StatusCode}
	}

	if decodeErr != nil {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("remote: decode %s %s data: %w", method, path, err)
	}
	return nil
}

func sessionPath(sessionID, action string) string {
	p := "/sessions/" + url.PathEscape(sessionID)
	if action != "" {
		p += "/" + action
	}
	return p
}
