package routes

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/handlers"
	"ggmarket/internal/middleware"
)

// SetupTicketRoutes sets up routes for support tickets
func SetupTicketRoutes(r *gin.RouterGroup, ticketHandler *handlers.TicketHandler, jwtSecret string) {
	tickets := r.Group("/tickets")
	tickets.Use(middleware.AuthRequired(jwtSecret))
	{
		tickets.POST("", ticketHandler.CreateTicket)
		tickets.GET("", ticketHandler.ListMyTickets)
		tickets.GET("/:id", ticketHandler.GetTicket)
		tickets.GET("/:id/messages", ticketHandler.GetMessages)
		tickets.POST("/:id/messages", ticketHandler.PostMessage)
	}

	admin := r.Group("/admin/tickets")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.StaffRequired())
	{
		admin.GET("", ticketHandler.ListAllTickets)
		admin.PUT("/:id/status", ticketHandler.SetStatus)
	}
}
