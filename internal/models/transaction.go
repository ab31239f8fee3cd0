package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusEscrow    TransactionStatus = "escrow"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusDisputed  TransactionStatus = "disputed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

type Transaction struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BuyerID         primitive.ObjectID `json:"buyer_id" bson:"buyer_id" validate:"required"`
	SellerID        primitive.ObjectID `json:"seller_id" bson:"seller_id" validate:"required"`
	ProductID       primitive.ObjectID `json:"product_id" bson:"product_id" validate:"required"`
	Amount          float64            `json:"amount" bson:"amount" validate:"required,gt=0"`
	Currency        string             `json:"currency" bson:"currency" default:"USD"`
	Status          TransactionStatus  `json:"status" bson:"status" default:"pending"`
	PaymentRef      string             `json:"payment_ref" bson:"payment_ref"`
	DisputeReason   string             `json:"dispute_reason,omitempty" bson:"dispute_reason"`
	ResolvedByAdmin bool               `json:"resolved_by_admin" bson:"resolved_by_admin"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty" bson:"completed_at"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`

	Buyer  *UserIdentity `json:"buyer,omitempty" bson:"-"`
	Seller *UserIdentity `json:"seller,omitempty" bson:"-"`
}

// Participant reports whether userID is the buyer or seller of the trade.
// Only participants may review a completed transaction.
func (t *Transaction) Participant(userID primitive.ObjectID) bool {
	return t.BuyerID == userID || t.SellerID == userID
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusEscrow, TransactionStatusCompleted,
		TransactionStatusDisputed, TransactionStatusRefunded:
		return true
	}
	return false
}
