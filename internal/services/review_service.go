package services

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/repositories/interfaces"
	"ggmarket/internal/utils"
	"ggmarket/internal/validators"
	"ggmarket/pkg/logger"
	"ggmarket/pkg/notify"
	"ggmarket/pkg/retry"
)

type ReviewService interface {
	// SubmitReview validates and records a review of the reviewer's
	// counterparty on a completed transaction, then recomputes the
	// reviewed user's reputation from the full review set.
	SubmitReview(ctx context.Context, reviewerID primitive.ObjectID, request *validators.ReviewCreateRequest) (*models.Review, error)
	GetReviewsForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Review, error)
	GetRatingStats(ctx context.Context, userID primitive.ObjectID) (*models.RatingStats, error)
	RecomputeReputation(ctx context.Context, userID primitive.ObjectID) (float64, error)
}

type reviewService struct {
	reviewRepo      interfaces.ReviewRepository
	transactionRepo interfaces.TransactionRepository
	userRepo        interfaces.UserRepository
	cache           CacheService
	publisher       notify.Publisher
	retryConfig     *retry.Config
	logger          *logger.Logger
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	transactionRepo interfaces.TransactionRepository,
	userRepo interfaces.UserRepository,
	cache CacheService,
	publisher notify.Publisher,
	logger *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		cache:           cache,
		publisher:       publisher,
		retryConfig:     storeRetryConfig(),
		logger:          logger,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, reviewerID primitive.ObjectID, request *validators.ReviewCreateRequest) (*models.Review, error) {
	// Rejection checks run cheapest first. The rating bounds check comes
	// before anything that touches the store.
	if request.Rating < utils.MinRating || request.Rating > utils.MaxRating {
		return nil, utils.NewValidationError("INVALID_RATING", "rating must be between 1 and 5")
	}

	if errs := validators.ValidateReviewCreate(request); errs != nil {
		return nil, utils.NewValidationError("INVALID_REVIEW", errs.Error())
	}

	existing, err := fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) (*models.Review, error) {
		return s.reviewRepo.GetByTransactionAndReviewer(ctx, request.TransactionID, reviewerID)
	})
	if err != nil && utils.KindOf(err) != utils.ErrKindNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("DUPLICATE_REVIEW", "transaction already reviewed by this user")
	}

	transaction, err := fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) (*models.Transaction, error) {
		return s.transactionRepo.GetByID(ctx, request.TransactionID)
	})
	if err != nil {
		if utils.KindOf(err) == utils.ErrKindNotFound {
			return nil, utils.NewValidationError("INVALID_TRANSACTION", "transaction does not exist")
		}
		return nil, err
	}

	if transaction.Status != models.TransactionStatusCompleted {
		return nil, utils.NewValidationError("INVALID_TRANSACTION", "only completed transactions can be reviewed")
	}

	if !transaction.Participant(reviewerID) {
		return nil, utils.NewForbiddenError("UNAUTHORIZED_REVIEWER", "reviewer is not a party to this transaction")
	}

	counterparty := transaction.SellerID
	if reviewerID == transaction.SellerID {
		counterparty = transaction.BuyerID
	}
	if request.ReviewedUserID != counterparty {
		return nil, utils.NewValidationError("INVALID_REVIEWED_USER", "reviewed user is not the transaction counterparty")
	}

	review := &models.Review{
		ReviewerID:     reviewerID,
		ReviewedUserID: request.ReviewedUserID,
		TransactionID:  request.TransactionID,
		Rating:         request.Rating,
		Comment:        request.Comment,
	}

	err = withRetry(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.reviewRepo.Create(ctx, review)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Delete(ctx, utils.RatingStatsCacheKey(request.ReviewedUserID))
	}

	// The recompute failing does not undo the accepted review; reputation
	// catches up on the next submission or an explicit recompute.
	if _, err := s.RecomputeReputation(ctx, request.ReviewedUserID); err != nil {
		s.logger.WithError(err).WithUserID(request.ReviewedUserID).Warn("Reputation recompute failed after review insert")
	}

	s.notifyEvent(ctx, review)

	return review, nil
}

func (s *reviewService) GetReviewsForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Review, error) {
	reviews, err := fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) ([]*models.Review, error) {
		return s.reviewRepo.GetByReviewedUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.attachReviewers(ctx, reviews)

	return reviews, nil
}

func (s *reviewService) GetRatingStats(ctx context.Context, userID primitive.ObjectID) (*models.RatingStats, error) {
	cacheKey := utils.RatingStatsCacheKey(userID)
	if s.cache != nil {
		var cached models.RatingStats
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	ratings, err := fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) ([]int, error) {
		return s.reviewRepo.GetRatingValues(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	stats := models.NewRatingStats()
	stats.Total = int64(len(ratings))

	sum := 0
	for _, rating := range ratings {
		sum += rating
		if rating >= utils.MinRating && rating <= utils.MaxRating {
			stats.Distribution[rating]++
		}
	}

	if stats.Total > 0 {
		stats.Average = roundToTenth(float64(sum) / float64(stats.Total))
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, stats, utils.RatingStatsCacheTTL)
	}

	return stats, nil
}

func (s *reviewService) RecomputeReputation(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	ratings, err := fetchWithRetry(ctx, s.retryConfig, func(ctx context.Context) ([]int, error) {
		return s.reviewRepo.GetRatingValues(ctx, userID)
	})
	if err != nil {
		return 0, err
	}

	reputation := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, rating := range ratings {
			sum += rating
		}
		reputation = roundToTenth(float64(sum) / float64(len(ratings)))
	}

	err = withRetry(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.userRepo.UpdateReputation(ctx, userID, reputation)
	})
	if err != nil {
		return 0, err
	}

	return reputation, nil
}

func (s *reviewService) attachReviewers(ctx context.Context, reviews []*models.Review) {
	if len(reviews) == 0 {
		return
	}

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, review := range reviews {
		if !seen[review.ReviewerID] {
			seen[review.ReviewerID] = true
			ids = append(ids, review.ReviewerID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load reviewer identities")
		return
	}

	for _, review := range reviews {
		if user, ok := users[review.ReviewerID]; ok {
			review.Reviewer = user.Identity()
		}
	}
}

func (s *reviewService) notifyEvent(ctx context.Context, review *models.Review) {
	if s.publisher == nil {
		return
	}

	event := &notify.Event{
		Type:   notify.EventReviewSubmitted,
		UserID: review.ReviewedUserID.Hex(),
		Data: map[string]interface{}{
			"review_id":      review.ID.Hex(),
			"transaction_id": review.TransactionID.Hex(),
			"rating":         review.Rating,
		},
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", notify.EventReviewSubmitted).Warn("Event publish failed")
	}
}

// roundToTenth keeps derived averages on a one-decimal scale.
func roundToTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
