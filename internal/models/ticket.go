package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TicketStatus string
type TicketPriority string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"

	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

type Ticket struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Subject     string             `json:"subject" bson:"subject" validate:"required,max=200"`
	Description string             `json:"description" bson:"description" validate:"required"`
	Status      TicketStatus       `json:"status" bson:"status" default:"new"`
	Priority    TicketPriority     `json:"priority" bson:"priority" default:"medium"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`

	User *UserIdentity `json:"user,omitempty" bson:"-"`
}

// TicketMessage is an append-only entry in a ticket's thread, ordered by
// creation time ascending. Messages are never edited or deleted.
type TicketMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TicketID  primitive.ObjectID `json:"ticket_id" bson:"ticket_id" validate:"required"`
	SenderID  primitive.ObjectID `json:"sender_id" bson:"sender_id" validate:"required"`
	Message   string             `json:"message" bson:"message" validate:"required,max=5000"`
	IsAdmin   bool               `json:"is_admin" bson:"is_admin"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`

	Sender *UserIdentity `json:"sender,omitempty" bson:"-"`
}

// Closed is the terminal state: no message may be posted once a ticket is closed.
func (s TicketStatus) Closed() bool {
	return s == TicketStatusClosed
}

// NextStatusOnMessage is the single transition rule driven by message
// activity: any message while the ticket is not closed forces in_progress,
// including reopening a resolved ticket. Posting to a closed ticket is
// rejected before this is consulted.
func NextStatusOnMessage(current TicketStatus) TicketStatus {
	if current.Closed() {
		return current
	}
	return TicketStatusInProgress
}

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}
