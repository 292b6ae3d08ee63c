package server

import (
	"auctioner/internal/server/ws"
	handler "auctioner/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService handler.AuctionServiceInterface, hub *ws.Hub) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(CallerMiddleware)

	auctionHandler := handler.NewAuctionHandler(auctionService)

	sessions := router.Group("/sessions")
	{
		sessions.POST("", auctionHandler.CreateSessionHandler)
		sessions.GET("/:session_id", auctionHandler.GetSessionHandler)
		sessions.POST("/:session_id/start", auctionHandler.StartSessionHandler)
		sessions.POST("/:session_id/pause", auctionHandler.PauseHandler)
		sessions.POST("/:session_id/cancel", auctionHandler.CancelHandler)
		sessions.POST("/:session_id/bids", auctionHandler.PlaceBidHandler)
		sessions.POST("/:session_id/sold", auctionHandler.MarkSoldHandler)
		sessions.POST("/:session_id/unsold", auctionHandler.MarkUnsoldHandler)
		sessions.POST("/:session_id/advance", auctionHandler.AdvanceHandler)
		sessions.POST("/:session_id/finish", auctionHandler.FinishHandler)
	}

	router.GET("/players", auctionHandler.ListPlayersHandler)
	router.GET("/teams", auctionHandler.ListTeamsHandler)

	matches := router.Group("/matches")
	{
		matches.POST("/simulate", auctionHandler.SimulateMatchHandler)
	}

	if hub != nil {
		router.GET("/ws", hub.HandleWS)
	}

	return router
}
