package notify

import "context"

// Publisher delivers marketplace events to an external fan-out channel.
// Delivery is best effort; callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

type Event struct {
	Type    string                 `json:"type"`
	UserID  string                 `json:"user_id,omitempty"`
	Subject string                 `json:"subject,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

const (
	EventTicketCreated        = "ticket.created"
	EventTicketMessagePosted  = "ticket.message_posted"
	EventTicketStatusChanged  = "ticket.status_changed"
	EventTransactionCreated   = "transaction.created"
	EventTransactionCompleted = "transaction.completed"
	EventTransactionDisputed  = "transaction.disputed"
	EventTransactionRefunded  = "transaction.refunded"
	EventReviewSubmitted      = "review.submitted"
)
