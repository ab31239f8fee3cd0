package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
)

type ReviewRepository interface {
	// Create inserts the review. The (transaction_id, reviewer_id) unique
	// index makes a concurrent duplicate surface as a conflict here rather
	// than slipping past the pre-insert existence check.
	Create(ctx context.Context, review *models.Review) error
	GetByTransactionAndReviewer(ctx context.Context, transactionID, reviewerID primitive.ObjectID) (*models.Review, error)
	GetByReviewedUser(ctx context.Context, reviewedUserID primitive.ObjectID) ([]*models.Review, error)

	// GetRatingValues returns just the rating column for a user, the input
	// to the full-scan reputation recompute.
	GetRatingValues(ctx context.Context, reviewedUserID primitive.ObjectID) ([]int, error)
}
