package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error)
	GetAll(ctx context.Context) ([]*models.Ticket, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	CreateMessage(ctx context.Context, message *models.TicketMessage) error
	GetMessages(ctx context.Context, ticketID primitive.ObjectID) ([]*models.TicketMessage, error)
}
