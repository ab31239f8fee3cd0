package routes

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/middleware"
	"ggmarket/pkg/websocket"
)

// SetupWebSocketRoutes sets up the realtime connection endpoint
func SetupWebSocketRoutes(r *gin.RouterGroup, wsHandler *websocket.Handler, jwtSecret string) {
	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired(jwtSecret))
	{
		ws.GET("", wsHandler.HandleWebSocket)
	}
}
