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

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) interfaces.ReviewRepository {
	return &reviewRepository{
		collection: db.Collection("reviews"),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		// The unique (transaction_id, reviewer_id) index turns a lost
		// duplicate race into a conflict instead of a second row.
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("DUPLICATE_REVIEW", "transaction already reviewed by this user")
		}
		return storeError("create review", err)
	}

	return nil
}

func (r *reviewRepository) GetByTransactionAndReviewer(ctx context.Context, transactionID, reviewerID primitive.ObjectID) (*models.Review, error) {
	filter := bson.M{
		"transaction_id": transactionID,
		"reviewer_id":    reviewerID,
	}

	var review models.Review
	err := r.collection.FindOne(ctx, filter).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("review")
		}
		return nil, storeError("get review", err)
	}

	return &review, nil
}

func (r *reviewRepository) GetByReviewedUser(ctx context.Context, reviewedUserID primitive.ObjectID) ([]*models.Review, error) {
	filter := bson.M{"reviewed_user_id": reviewedUserID}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, storeError("find reviews", err)
	}
	defer cursor.Close(ctx)

	var reviews []*models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, storeError("decode review", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}

func (r *reviewRepository) GetRatingValues(ctx context.Context, reviewedUserID primitive.ObjectID) ([]int, error) {
	filter := bson.M{"reviewed_user_id": reviewedUserID}
	opts := options.Find().SetProjection(bson.M{"rating": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError("find rating values", err)
	}
	defer cursor.Close(ctx)

	var ratings []int
	for cursor.Next(ctx) {
		var doc struct {
			Rating int `bson:"rating"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeError("decode rating value", err)
		}
		ratings = append(ratings, doc.Rating)
	}

	return ratings, nil
}
