package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/repositories/interfaces"
	"ggmarket/internal/utils"
	"ggmarket/internal/validators"
	"ggmarket/pkg/logger"
	"ggmarket/pkg/notify"
	"ggmarket/pkg/retry"
	"ggmarket/pkg/websocket"
)

type TicketService interface {
	// CreateTicket opens a ticket and seeds its thread with the description
	// as the first message. If the message insert fails after the ticket
	// committed, the error carries the ticket ID so the caller can retry
	// just the message.
	CreateTicket(ctx context.Context, userID primitive.ObjectID, request *validators.TicketCreateRequest) (*models.Ticket, error)
	GetTicket(ctx context.Context, ticketID, requesterID primitive.ObjectID, requesterIsAdmin bool) (*models.Ticket, error)
	ListUserTickets(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error)
	ListAllTickets(ctx context.Context) ([]*models.Ticket, error)
	PostMessage(ctx context.Context, ticketID, senderID primitive.ObjectID, senderIsAdmin bool, request *validators.TicketMessageRequest) (*models.TicketMessage, error)
	GetMessages(ctx context.Context, ticketID, requesterID primitive.ObjectID, requesterIsAdmin bool) ([]*models.TicketMessage, error)
	SetStatus(ctx context.Context, ticketID primitive.ObjectID, status models.TicketStatus) error
}

type ticketService struct {
	ticketRepo  interfaces.TicketRepository
	userRepo    interfaces.UserRepository
	wsHandler   *websocket.Handler
	publisher   notify.Publisher
	retryConfig *retry.Config
	logger      *logger.Logger
}

func NewTicketService(
	ticketRepo interfaces.TicketRepository,
	userRepo interfaces.UserRepository,
	wsHandler *websocket.Handler,
	publisher notify.Publisher,
	logger *logger.Logger,
) TicketService {
	return &ticketService{
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
		wsHandler:   wsHandler,
		publisher:   publisher,
		retryConfig: storeRetryConfig(),
		logger:      logger,
	}
}

func (s *ticketService) CreateTicket(ctx context.Context, userID primitive.ObjectID, request *validators.TicketCreateRequest) (*models.Ticket, error) {
	if errs := validators.ValidateTicketCreate(request); errs != nil {
		return nil, utils.NewValidationError("INVALID_TICKET", errs.Error())
	}

	priority := models.TicketPriority(request.Priority)
	if priority == "" {
		priority = models.TicketPriorityMedium
	}

	ticket := &models.Ticket{
		UserID:      userID,
		Subject:     request.Subject,
		Description: request.Description,
		Status:      models.TicketStatusNew,
		Priority:    priority,
	}

	err := withRetry(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.ticketRepo.Create(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	// The description doubles as the thread's opening message.
	firstMessage := &models.TicketMessage{
		TicketID: ticket.ID,
		SenderID: userID,
		Message:  request.Description,
		IsAdmin:  false,
	}

	err = withRetry(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.ticketRepo.CreateMessage(ctx, firstMessage)
	})
	if err != nil {
		// The ticket exists without its opening message. Surface the ID so
		// the message can be re-posted instead of opening a second ticket.
		s.logger.WithError(err).WithField("ticket_id", ticket.ID.Hex()).Error("Ticket created but opening message failed")
		return ticket, utils.NewPartialFailureError(
			"TICKET_MESSAGE_FAILED",
			"ticket "+ticket.ID.Hex()+" was created but its opening message could not be saved",
			err,
		)
	}

	s.notifyEvent(ctx, notify.EventTicketCreated, userID, map[string]interface{}{
		"ticket_id": ticket.ID.Hex(),
		"subject":   ticket.Subject,
		"priority":  string(ticket.Priority),
	})

	return ticket, nil
}

func (s *ticketService) GetTicket(ctx context.Context, ticketID, requesterID primitive.ObjectID, requesterIsAdmin bool) (*models.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !requesterIsAdmin && ticket.UserID != requesterID {
		return nil, utils.NewForbiddenError("TICKET_ACCESS_DENIED", "ticket belongs to another user")
	}

	s.attachUsers(ctx, []*models.Ticket{ticket})

	return ticket, nil
}

func (s *ticketService) ListUserTickets(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error) {
	tickets, err := fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) ([]*models.Ticket, error) {
		return s.ticketRepo.GetByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.attachUsers(ctx, tickets)

	return tickets, nil
}

func (s *ticketService) ListAllTickets(ctx context.Context) ([]*models.Ticket, error) {
	tickets, err := fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) ([]*models.Ticket, error) {
		return s.ticketRepo.GetAll(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.attachUsers(ctx, tickets)

	return tickets, nil
}

func (s *ticketService) PostMessage(ctx context.Context, ticketID, senderID primitive.ObjectID, senderIsAdmin bool, request *validators.TicketMessageRequest) (*models.TicketMessage, error) {
	if errs := validators.ValidateTicketMessage(request); errs != nil {
		return nil, utils.NewValidationError("INVALID_MESSAGE", errs.Error())
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !senderIsAdmin && ticket.UserID != senderID {
		return nil, utils.NewForbiddenError("TICKET_ACCESS_DENIED", "ticket belongs to another user")
	}

	if ticket.Status.Closed() {
		return nil, utils.NewConflictError("TICKET_CLOSED", "no messages may be posted to a closed ticket")
	}

	message := &models.TicketMessage{
		TicketID: ticketID,
		SenderID: senderID,
		Message:  request.Message,
		IsAdmin:  senderIsAdmin,
	}

	err = withRetry(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.ticketRepo.CreateMessage(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	// Any message on an open ticket, including one on a resolved ticket,
	// moves it to in_progress. The repository stamps updated_at.
	updates := map[string]interface{}{
		"status": models.NextStatusOnMessage(ticket.Status),
	}
	err = withRetry(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.ticketRepo.Update(ctx, ticketID, updates)
	})
	if err != nil {
		s.logger.WithError(err).WithField("ticket_id", ticketID.Hex()).Warn("Failed to update ticket after message")
	}

	if s.wsHandler != nil {
		s.wsHandler.SendTicketUpdate(ticketID, "ticket_message", map[string]interface{}{
			"ticket_id":  ticketID.Hex(),
			"message_id": message.ID.Hex(),
			"sender_id":  senderID.Hex(),
			"is_admin":   senderIsAdmin,
			"message":    message.Message,
		})
	}

	s.notifyEvent(ctx, notify.EventTicketMessagePosted, ticket.UserID, map[string]interface{}{
		"ticket_id": ticketID.Hex(),
		"is_admin":  senderIsAdmin,
	})

	return message, nil
}

func (s *ticketService) GetMessages(ctx context.Context, ticketID, requesterID primitive.ObjectID, requesterIsAdmin bool) ([]*models.TicketMessage, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !requesterIsAdmin && ticket.UserID != requesterID {
		return nil, utils.NewForbiddenError("TICKET_ACCESS_DENIED", "ticket belongs to another user")
	}

	messages, err := fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) ([]*models.TicketMessage, error) {
		return s.ticketRepo.GetMessages(ctx, ticketID)
	})
	if err != nil {
		return nil, err
	}

	s.attachSenders(ctx, messages)

	return messages, nil
}

func (s *ticketService) SetStatus(ctx context.Context, ticketID primitive.ObjectID, status models.TicketStatus) error {
	if !status.Valid() {
		return utils.NewValidationError("INVALID_STATUS", "unknown ticket status")
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status": status,
	}
	err = withRetry(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.ticketRepo.Update(ctx, ticketID, updates)
	})
	if err != nil {
		return err
	}

	if s.wsHandler != nil {
		s.wsHandler.SendTicketUpdate(ticketID, "ticket_status", map[string]interface{}{
			"ticket_id": ticketID.Hex(),
			"status":    string(status),
		})
	}

	s.notifyEvent(ctx, notify.EventTicketStatusChanged, ticket.UserID, map[string]interface{}{
		"ticket_id": ticketID.Hex(),
		"status":    string(status),
	})

	return nil
}

func (s *ticketService) getTicket(ctx context.Context, ticketID primitive.ObjectID) (*models.Ticket, error) {
	return fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) (*models.Ticket, error) {
		return s.ticketRepo.GetByID(ctx, ticketID)
	})
}

func (s *ticketService) attachUsers(ctx context.Context, tickets []*models.Ticket) {
	if len(tickets) == 0 {
		return
	}

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, ticket := range tickets {
		if !seen[ticket.UserID] {
			seen[ticket.UserID] = true
			ids = append(ids, ticket.UserID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load ticket user identities")
		return
	}

	for _, ticket := range tickets {
		if user, ok := users[ticket.UserID]; ok {
			ticket.User = user.Identity()
		}
	}
}

func (s *ticketService) attachSenders(ctx context.Context, messages []*models.TicketMessage) {
	if len(messages) == 0 {
		return
	}

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, message := range messages {
		if !seen[message.SenderID] {
			seen[message.SenderID] = true
			ids = append(ids, message.SenderID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load message sender identities")
		return
	}

	for _, message := range messages {
		if user, ok := users[message.SenderID]; ok {
			message.Sender = user.Identity()
		}
	}
}

func (s *ticketService) notifyEvent(ctx context.Context, eventType string, userID primitive.ObjectID, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}

	event := &notify.Event{
		Type:   eventType,
		UserID: userID.Hex(),
		Data:   data,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("Event publish failed")
	}
}
