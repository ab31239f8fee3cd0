package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ggmarket/internal/models"
	"ggmarket/internal/repositories/interfaces"
	"ggmarket/internal/utils"
)

type ticketRepository struct {
	tickets  *mongo.Collection
	messages *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) interfaces.TicketRepository {
	return &ticketRepository{
		tickets:  db.Collection("tickets"),
		messages: db.Collection("ticket_messages"),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	ticket.ID = primitive.NewObjectID()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()

	if _, err := r.tickets.InsertOne(ctx, ticket); err != nil {
		return storeError("create ticket", err)
	}

	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.tickets.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("ticket")
		}
		return nil, storeError("get ticket", err)
	}

	return &ticket, nil
}

func (r *ticketRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error) {
	return r.findTickets(ctx, bson.M{"user_id": userID})
}

func (r *ticketRepository) GetAll(ctx context.Context) ([]*models.Ticket, error) {
	return r.findTickets(ctx, bson.M{})
}

func (r *ticketRepository) findTickets(ctx context.Context, filter bson.M) ([]*models.Ticket, error) {
	cursor, err := r.tickets.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, storeError("find tickets", err)
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	for cursor.Next(ctx) {
		var ticket models.Ticket
		if err := cursor.Decode(&ticket); err != nil {
			return nil, storeError("decode ticket", err)
		}
		tickets = append(tickets, &ticket)
	}

	return tickets, nil
}

func (r *ticketRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.tickets.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return storeError("update ticket", err)
	}

	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("ticket")
	}

	return nil
}

func (r *ticketRepository) CreateMessage(ctx context.Context, message *models.TicketMessage) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()

	if _, err := r.messages.InsertOne(ctx, message); err != nil {
		return storeError("create ticket message", err)
	}

	return nil
}

func (r *ticketRepository) GetMessages(ctx context.Context, ticketID primitive.ObjectID) ([]*models.TicketMessage, error) {
	filter := bson.M{"ticket_id": ticketID}

	// Thread order is oldest first.
	cursor, err := r.messages.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, storeError("find ticket messages", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.TicketMessage
	for cursor.Next(ctx) {
		var message models.TicketMessage
		if err := cursor.Decode(&message); err != nil {
			return nil, storeError("decode ticket message", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}
