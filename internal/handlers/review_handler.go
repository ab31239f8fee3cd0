package handlers

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/services"
	"ggmarket/internal/utils"
	"ggmarket/internal/validators"
	"ggmarket/pkg/logger"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	logger        *logger.Logger
}

func NewReviewHandler(reviewService services.ReviewService, logger *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// SubmitReview handles POST /reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.ReviewCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), reviewerID, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Review submitted", review)
}

// GetUserReviews handles GET /users/:id/reviews
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	reviews, err := h.reviewService.GetReviewsForUser(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Reviews retrieved", reviews, &utils.Meta{Count: len(reviews)})
}

// GetUserRatingStats handles GET /users/:id/rating-stats
func (h *ReviewHandler) GetUserRatingStats(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	stats, err := h.reviewService.GetRatingStats(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Rating stats retrieved", stats)
}

// RecomputeReputation handles POST /admin/users/:id/recompute-reputation
func (h *ReviewHandler) RecomputeReputation(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	reputation, err := h.reviewService.RecomputeReputation(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Reputation recomputed", gin.H{"reputation": reputation})
}
