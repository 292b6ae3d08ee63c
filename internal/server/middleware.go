package server

import (
	"strings"
	"time"

	"auctioner/internal/models"
	"auctioner/services/auction/helpers"
	"auctioner/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
		"user_id": c.GetHeader(models.HeaderUserID),
	})
}

// CallerMiddleware stores the caller identity from the request headers.
// Unknown roles fall back to the least privileged one.
func CallerMiddleware(c *gin.Context) {
	role := models.UserRole(strings.ToLower(strings.TrimSpace(c.GetHeader(models.HeaderUserRole))))
	switch role {
	case models.RoleAdmin, models.RoleTeamManager:
	default:
		role = models.RolePlayer
	}

	c.Set(helpers.CallerKey, models.Caller{
		UserID: strings.TrimSpace(c.GetHeader(models.HeaderUserID)),
		Role:   role,
		TeamID: strings.TrimSpace(c.GetHeader(models.HeaderTeamID)),
	})
	c.Next()
}
