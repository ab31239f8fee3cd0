package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is append-only: one per (transaction_id, reviewer_id), enforced by a
// unique index so concurrent submissions cannot both land. Reviews are never
// edited or deleted; the reviewed user's reputation is recomputed from the
// full set on every insert.
type Review struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReviewerID     primitive.ObjectID `json:"reviewer_id" bson:"reviewer_id" validate:"required"`
	ReviewedUserID primitive.ObjectID `json:"reviewed_user_id" bson:"reviewed_user_id" validate:"required"`
	TransactionID  primitive.ObjectID `json:"transaction_id" bson:"transaction_id" validate:"required"`
	Rating         int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment        string             `json:"comment" bson:"comment" validate:"max=1000"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`

	Reviewer *UserIdentity `json:"reviewer,omitempty" bson:"-"`
}

// RatingStats is the aggregate view over one user's received reviews.
// A user with no reviews gets the zero value, not an error.
type RatingStats struct {
	Average      float64     `json:"average"`
	Total        int64       `json:"total"`
	Distribution map[int]int `json:"distribution"`
}

func NewRatingStats() *RatingStats {
	return &RatingStats{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
}
