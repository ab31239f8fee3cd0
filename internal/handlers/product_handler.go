package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/repositories/interfaces"
	"ggmarket/internal/services"
	"ggmarket/internal/utils"
	"ggmarket/internal/validators"
	"ggmarket/pkg/logger"
)

type ProductHandler struct {
	productService services.ProductService
	logger         *logger.Logger
}

func NewProductHandler(productService services.ProductService, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.ProductCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), sellerID, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Product listed for approval", product)
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Product retrieved", product)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := &interfaces.ProductFilter{
		Game: c.Query("game"),
	}
	if category := c.Query("category"); category != "" {
		filter.Category = models.ProductCategory(category)
	}
	if sellerID, err := primitive.ObjectIDFromHex(c.Query("seller_id")); err == nil {
		filter.SellerID = sellerID
	}

	// Public browsing only sees live listings; staff can filter by status.
	filter.Status = models.ProductStatusActive
	if isStaff(c) {
		if status := c.Query("status"); status != "" {
			filter.Status = models.ProductStatus(status)
		}
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), filter, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Products retrieved", products, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(products),
	})
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	productID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	var request validators.ProductUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), productID, sellerID, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Product updated", product)
}

// SetStatus handles PUT /admin/products/:id/status
func (h *ProductHandler) SetStatus(c *gin.Context) {
	productID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Status is required")
		return
	}

	if err := h.productService.SetStatus(c.Request.Context(), productID, models.ProductStatus(request.Status)); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Product status updated", gin.H{"status": request.Status})
}

// UploadImage handles POST /products/:id/images
func (h *ProductHandler) UploadImage(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	productID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required")
		return
	}
	defer file.Close()

	url, err := h.productService.UploadImage(c.Request.Context(), productID, sellerID, file, header.Header.Get("Content-Type"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Image uploaded", gin.H{"url": url})
}
