package routes

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/handlers"
	"ggmarket/internal/middleware"
)

// SetupAuthRoutes sets up routes for registration and authentication
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	me := r.Group("/auth")
	me.Use(middleware.AuthRequired(jwtSecret))
	{
		me.GET("/me", authHandler.GetProfile)
	}
}
