package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"
	"auctioner/internal/simulator"
	"auctioner/utils"

	"github.com/gin-gonic/gin"
)

// CallerKey is the gin context key the caller identity is stored under
const CallerKey = "caller"

// Caller returns the identity the request was made with, or an anonymous player
func Caller(c *gin.Context) models.Caller {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(models.Caller); ok {
			return caller
		}
	}
	return models.Caller{Role: models.RolePlayer}
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid request payload", fmt.Errorf("%w: %w", biddingerrors.ErrInvalidBid, err))
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrSessionNotFound):
		return http.StatusNotFound, "auction session not found"
	case errors.Is(err, biddingerrors.ErrPlayerNotFound):
		return http.StatusNotFound, "player not found"
	case errors.Is(err, biddingerrors.ErrTeamNotFound):
		return http.StatusNotFound, "team not found"
	case errors.Is(err, biddingerrors.ErrInvalidBid),
		errors.Is(err, biddingerrors.ErrEmptyRoster),
		errors.Is(err, simulator.ErrInvalidOvers):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, biddingerrors.ErrNotAuthorized):
		return http.StatusForbidden, "administrator capability required"
	case errors.Is(err, biddingerrors.ErrNotYourTeam):
		return http.StatusForbidden, "caller may not bid for this team"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, biddingerrors.ErrBudgetExceeded):
		return http.StatusUnprocessableEntity, "team budget exceeded"
	case errors.Is(err, biddingerrors.ErrOutbid):
		return http.StatusConflict, "a competing bid was accepted first"
	case errors.Is(err, biddingerrors.ErrRateLimited):
		return http.StatusTooManyRequests, "too many bids, try again later"
	case errors.Is(err, biddingerrors.ErrAuctionNotInProgress),
		errors.Is(err, biddingerrors.ErrInvalidTransition),
		errors.Is(err, biddingerrors.ErrNoBidToSell),
		errors.Is(err, biddingerrors.ErrBidActive),
		errors.Is(err, biddingerrors.ErrPlayerNotOpen),
		errors.Is(err, biddingerrors.ErrNoEligiblePlayers):
		return http.StatusConflict, "operation not allowed in the current auction state"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
