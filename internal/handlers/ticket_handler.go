package handlers

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/models"
	"ggmarket/internal/services"
	"ggmarket/internal/utils"
	"ggmarket/internal/validators"
	"ggmarket/pkg/logger"
)

type TicketHandler struct {
	ticketService services.TicketService
	logger        *logger.Logger
}

func NewTicketHandler(ticketService services.TicketService, logger *logger.Logger) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		logger:        logger,
	}
}

// CreateTicket handles POST /tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.TicketCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	ticket, err := h.ticketService.CreateTicket(c.Request.Context(), userID, &request)
	if err != nil {
		// A partial failure still created the ticket; the error message
		// carries its ID for the retry.
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Ticket created", ticket)
}

// ListMyTickets handles GET /tickets
func (h *TicketHandler) ListMyTickets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	tickets, err := h.ticketService.ListUserTickets(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Tickets retrieved", tickets, &utils.Meta{Count: len(tickets)})
}

// ListAllTickets handles GET /admin/tickets
func (h *TicketHandler) ListAllTickets(c *gin.Context) {
	tickets, err := h.ticketService.ListAllTickets(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Tickets retrieved", tickets, &utils.Meta{Count: len(tickets)})
}

// GetTicket handles GET /tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	ticketID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.ticketService.GetTicket(c.Request.Context(), ticketID, userID, isStaff(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Ticket retrieved", ticket)
}

// PostMessage handles POST /tickets/:id/messages
func (h *TicketHandler) PostMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	ticketID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid ticket ID")
		return
	}

	var request validators.TicketMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	message, err := h.ticketService.PostMessage(c.Request.Context(), ticketID, userID, isStaff(c), &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Message posted", message)
}

// GetMessages handles GET /tickets/:id/messages
func (h *TicketHandler) GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	ticketID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid ticket ID")
		return
	}

	messages, err := h.ticketService.GetMessages(c.Request.Context(), ticketID, userID, isStaff(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Messages retrieved", messages, &utils.Meta{Count: len(messages)})
}

// SetStatus handles PUT /admin/tickets/:id/status
func (h *TicketHandler) SetStatus(c *gin.Context) {
	ticketID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid ticket ID")
		return
	}

	var request validators.TicketStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.ticketService.SetStatus(c.Request.Context(), ticketID, models.TicketStatus(request.Status)); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Ticket status updated", gin.H{"status": request.Status})
}
