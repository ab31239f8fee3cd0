package routes

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/handlers"
	"ggmarket/internal/middleware"
)

// SetupProductRoutes sets up routes for marketplace listings
func SetupProductRoutes(r *gin.RouterGroup, productHandler *handlers.ProductHandler, jwtSecret string) {
	// Browsing is public.
	public := r.Group("/products")
	{
		public.GET("", productHandler.ListProducts)
		public.GET("/:id", productHandler.GetProduct)
	}

	products := r.Group("/products")
	products.Use(middleware.AuthRequired(jwtSecret))
	{
		products.POST("", productHandler.CreateProduct)
		products.PUT("/:id", productHandler.UpdateProduct)
		products.POST("/:id/images", productHandler.UploadImage)
	}

	admin := r.Group("/admin/products")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.StaffRequired())
	{
		admin.PUT("/:id/status", productHandler.SetStatus)
	}
}
