package routes

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/handlers"
	"ggmarket/internal/middleware"
)

// SetupReviewRoutes sets up routes for reviews and rating aggregates
func SetupReviewRoutes(r *gin.RouterGroup, reviewHandler *handlers.ReviewHandler, jwtSecret string) {
	// Rating data is public profile information.
	users := r.Group("/users")
	{
		users.GET("/:id/reviews", reviewHandler.GetUserReviews)
		users.GET("/:id/rating-stats", reviewHandler.GetUserRatingStats)
	}

	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthRequired(jwtSecret))
	{
		reviews.POST("", reviewHandler.SubmitReview)
	}

	admin := r.Group("/admin/users")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("/:id/recompute-reputation", reviewHandler.RecomputeReputation)
	}
}
