package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/utils"
	"ggmarket/internal/validators"
	"ggmarket/pkg/notify"
)

func newReviewTestService(reviewRepo *mockReviewRepository, transactionRepo *mockTransactionRepository, userRepo *mockUserRepository) ReviewService {
	return NewReviewService(reviewRepo, transactionRepo, userRepo, nil, nil, newTestLogger())
}

func completedTransaction(buyerID, sellerID primitive.ObjectID) *models.Transaction {
	return &models.Transaction{
		ID:       primitive.NewObjectID(),
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   models.TransactionStatusCompleted,
		Amount:   25,
	}
}

func TestSubmitReviewHappyPath(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	transaction := completedTransaction(buyerID, sellerID)

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, buyerID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)
	reviewRepo.On("GetRatingValues", mock.Anything, sellerID).Return([]int{5}, nil)
	userRepo.On("UpdateReputation", mock.Anything, sellerID, 5.0).Return(nil)

	service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

	review, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: sellerID,
		TransactionID:  transaction.ID,
		Rating:         5,
		Comment:        "fast delivery",
	})

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, buyerID, review.ReviewerID)
	userRepo.AssertCalled(t, "UpdateReputation", mock.Anything, sellerID, 5.0)
}

func TestSubmitReviewRejectsOutOfRangeRatings(t *testing.T) {
	service := newReviewTestService(new(mockReviewRepository), new(mockTransactionRepository), new(mockUserRepository))

	for _, rating := range []int{0, 6, -1, 100} {
		_, err := service.SubmitReview(context.Background(), primitive.NewObjectID(), &validators.ReviewCreateRequest{
			ReviewedUserID: primitive.NewObjectID(),
			TransactionID:  primitive.NewObjectID(),
			Rating:         rating,
		})

		require.Error(t, err, "rating %d should be rejected", rating)
		assert.Equal(t, utils.ErrKindValidation, utils.KindOf(err))
		assert.Equal(t, "INVALID_RATING", utils.CodeOf(err))
	}
}

func TestSubmitReviewAcceptsBoundaryRatings(t *testing.T) {
	for _, rating := range []int{1, 5} {
		reviewRepo := new(mockReviewRepository)
		transactionRepo := new(mockTransactionRepository)
		userRepo := new(mockUserRepository)

		buyerID := primitive.NewObjectID()
		sellerID := primitive.NewObjectID()
		transaction := completedTransaction(buyerID, sellerID)

		reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, buyerID).
			Return(nil, utils.NewNotFoundError("review"))
		transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)
		reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)
		reviewRepo.On("GetRatingValues", mock.Anything, sellerID).Return([]int{rating}, nil)
		userRepo.On("UpdateReputation", mock.Anything, sellerID, float64(rating)).Return(nil)

		service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

		_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
			ReviewedUserID: sellerID,
			TransactionID:  transaction.ID,
			Rating:         rating,
		})

		require.NoError(t, err, "rating %d should be accepted", rating)
	}
}

func TestSubmitReviewRejectsDuplicate(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	transactionID := primitive.NewObjectID()

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transactionID, buyerID).
		Return(&models.Review{ID: primitive.NewObjectID()}, nil)

	service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

	_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: sellerID,
		TransactionID:  transactionID,
		Rating:         4,
	})

	require.Error(t, err)
	assert.Equal(t, utils.ErrKindConflict, utils.KindOf(err))
	assert.Equal(t, "DUPLICATE_REVIEW", utils.CodeOf(err))
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReviewDuplicateRaceSurfacesAsConflict(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	transaction := completedTransaction(buyerID, sellerID)

	// The pre-check misses, but the unique index catches the insert.
	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, buyerID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Return(utils.NewConflictError("DUPLICATE_REVIEW", "transaction already reviewed by this user"))

	service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

	_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: sellerID,
		TransactionID:  transaction.ID,
		Rating:         3,
	})

	require.Error(t, err)
	assert.Equal(t, utils.ErrKindConflict, utils.KindOf(err))
	userRepo.AssertNotCalled(t, "UpdateReputation", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReviewRejectsMissingTransaction(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)

	buyerID := primitive.NewObjectID()
	transactionID := primitive.NewObjectID()

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transactionID, buyerID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transactionID).
		Return(nil, utils.NewNotFoundError("transaction"))

	service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

	_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: primitive.NewObjectID(),
		TransactionID:  transactionID,
		Rating:         4,
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSACTION", utils.CodeOf(err))
}

func TestSubmitReviewRejectsEscrowTransaction(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	transaction := completedTransaction(buyerID, sellerID)
	transaction.Status = models.TransactionStatusEscrow

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, buyerID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)

	service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

	_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: sellerID,
		TransactionID:  transaction.ID,
		Rating:         4,
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSACTION", utils.CodeOf(err))
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReviewRejectsNonParticipant(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)

	outsiderID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	transaction := completedTransaction(primitive.NewObjectID(), sellerID)

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, outsiderID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)

	service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

	_, err := service.SubmitReview(context.Background(), outsiderID, &validators.ReviewCreateRequest{
		ReviewedUserID: sellerID,
		TransactionID:  transaction.ID,
		Rating:         4,
	})

	require.Error(t, err)
	assert.Equal(t, utils.ErrKindForbidden, utils.KindOf(err))
	assert.Equal(t, "UNAUTHORIZED_REVIEWER", utils.CodeOf(err))
}

func TestSubmitReviewRejectsWrongCounterparty(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)

	buyerID := primitive.NewObjectID()
	transaction := completedTransaction(buyerID, primitive.NewObjectID())

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, buyerID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)

	service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

	_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: primitive.NewObjectID(), // not the seller
		TransactionID:  transaction.ID,
		Rating:         4,
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_REVIEWED_USER", utils.CodeOf(err))
}

func TestRecomputeReputationRoundsToOneDecimal(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	userRepo := new(mockUserRepository)

	userID := primitive.NewObjectID()
	reviewRepo.On("GetRatingValues", mock.Anything, userID).Return([]int{5, 4, 4}, nil)
	userRepo.On("UpdateReputation", mock.Anything, userID, 4.3).Return(nil)

	service := newReviewTestService(reviewRepo, new(mockTransactionRepository), userRepo)

	reputation, err := service.RecomputeReputation(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 4.3, reputation)
}

func TestRecomputeReputationEmptySetIsZero(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	userRepo := new(mockUserRepository)

	userID := primitive.NewObjectID()
	reviewRepo.On("GetRatingValues", mock.Anything, userID).Return([]int{}, nil)
	userRepo.On("UpdateReputation", mock.Anything, userID, 0.0).Return(nil)

	service := newReviewTestService(reviewRepo, new(mockTransactionRepository), userRepo)

	reputation, err := service.RecomputeReputation(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 0.0, reputation)
}

func TestGetRatingStatsComputesDistribution(t *testing.T) {
	reviewRepo := new(mockReviewRepository)

	userID := primitive.NewObjectID()
	reviewRepo.On("GetRatingValues", mock.Anything, userID).Return([]int{4, 5}, nil)

	service := newReviewTestService(reviewRepo, new(mockTransactionRepository), new(mockUserRepository))

	stats, err := service.GetRatingStats(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 4.5, stats.Average)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1}, stats.Distribution)
}

func TestGetRatingStatsEmptyIsZeroValue(t *testing.T) {
	reviewRepo := new(mockReviewRepository)

	userID := primitive.NewObjectID()
	reviewRepo.On("GetRatingValues", mock.Anything, userID).Return([]int{}, nil)

	service := newReviewTestService(reviewRepo, new(mockTransactionRepository), new(mockUserRepository))

	stats, err := service.GetRatingStats(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.Average)
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, stats.Distribution)
}

func TestGetRatingStatsServedFromCache(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	cache := new(mockCache)

	userID := primitive.NewObjectID()
	cache.On("Get", mock.Anything, utils.RatingStatsCacheKey(userID), mock.Anything).
		Run(func(args mock.Arguments) {
			stats := args.Get(2).(*models.RatingStats)
			stats.Average = 4.0
			stats.Total = 3
			stats.Distribution = map[int]int{1: 0, 2: 0, 3: 1, 4: 1, 5: 1}
		}).
		Return(nil)

	service := NewReviewService(reviewRepo, new(mockTransactionRepository), new(mockUserRepository), cache, nil, newTestLogger())

	stats, err := service.GetRatingStats(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 4.0, stats.Average)
	reviewRepo.AssertNotCalled(t, "GetRatingValues", mock.Anything, mock.Anything)
}

func TestGetReviewsForUserAttachesReviewerIdentity(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	userRepo := new(mockUserRepository)

	userID := primitive.NewObjectID()
	reviewerID := primitive.NewObjectID()
	reviews := []*models.Review{
		{ID: primitive.NewObjectID(), ReviewerID: reviewerID, ReviewedUserID: userID, Rating: 5},
	}

	reviewRepo.On("GetByReviewedUser", mock.Anything, userID).Return(reviews, nil)
	userRepo.On("GetByIDs", mock.Anything, []primitive.ObjectID{reviewerID}).
		Return(map[primitive.ObjectID]*models.User{
			reviewerID: {ID: reviewerID, Username: "trader42"},
		}, nil)

	service := newReviewTestService(reviewRepo, new(mockTransactionRepository), userRepo)

	result, err := service.GetReviewsForUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].Reviewer)
	assert.Equal(t, "trader42", result[0].Reviewer.Username)
}

func TestSubmitReviewExhaustedRetriesBecomeUnavailable(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	transaction := completedTransaction(buyerID, sellerID)

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, buyerID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Return(utils.NewTransientError("create review", errors.New("connection reset")))

	service := newReviewTestService(reviewRepo, transactionRepo, userRepo)

	_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: sellerID,
		TransactionID:  transaction.ID,
		Rating:         4,
	})

	require.Error(t, err)
	assert.Equal(t, utils.ErrKindUnavailable, utils.KindOf(err))
	assert.Equal(t, "STORE_UNAVAILABLE", utils.CodeOf(err))
	reviewRepo.AssertNumberOfCalls(t, "Create", 3)
}

func TestGetRatingStatsRetriesTransientReads(t *testing.T) {
	reviewRepo := new(mockReviewRepository)

	userID := primitive.NewObjectID()
	reviewRepo.On("GetRatingValues", mock.Anything, userID).
		Return(nil, utils.NewTransientError("find rating values", errors.New("i/o timeout")))

	service := newReviewTestService(reviewRepo, new(mockTransactionRepository), new(mockUserRepository))

	_, err := service.GetRatingStats(context.Background(), userID)

	require.Error(t, err)
	assert.Equal(t, utils.ErrKindUnavailable, utils.KindOf(err))
	assert.Equal(t, "STORE_UNAVAILABLE", utils.CodeOf(err))
	reviewRepo.AssertNumberOfCalls(t, "GetRatingValues", 3)
}

func TestSubmitReviewPublishesEvent(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)
	publisher := new(mockPublisher)

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	transaction := completedTransaction(buyerID, sellerID)

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, buyerID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)
	reviewRepo.On("GetRatingValues", mock.Anything, sellerID).Return([]int{5}, nil)
	userRepo.On("UpdateReputation", mock.Anything, sellerID, 5.0).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(event *notify.Event) bool {
		return event.Type == notify.EventReviewSubmitted && event.UserID == sellerID.Hex()
	})).Return(nil)

	service := NewReviewService(reviewRepo, transactionRepo, userRepo, nil, publisher, newTestLogger())

	_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: sellerID,
		TransactionID:  transaction.ID,
		Rating:         5,
	})

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestSubmitReviewInvalidatesStatsCacheOnce(t *testing.T) {
	reviewRepo := new(mockReviewRepository)
	transactionRepo := new(mockTransactionRepository)
	userRepo := new(mockUserRepository)
	cache := new(mockCache)

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	transaction := completedTransaction(buyerID, sellerID)

	reviewRepo.On("GetByTransactionAndReviewer", mock.Anything, transaction.ID, buyerID).
		Return(nil, utils.NewNotFoundError("review"))
	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)
	reviewRepo.On("GetRatingValues", mock.Anything, sellerID).Return([]int{4}, nil)
	userRepo.On("UpdateReputation", mock.Anything, sellerID, 4.0).Return(nil)
	cache.On("Delete", mock.Anything, []string{utils.RatingStatsCacheKey(sellerID)}).Return(nil)

	service := NewReviewService(reviewRepo, transactionRepo, userRepo, cache, nil, newTestLogger())

	_, err := service.SubmitReview(context.Background(), buyerID, &validators.ReviewCreateRequest{
		ReviewedUserID: sellerID,
		TransactionID:  transaction.ID,
		Rating:         4,
	})

	require.NoError(t, err)
	cache.AssertNumberOfCalls(t, "Delete", 1)
}
