package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/repositories/interfaces"
	"ggmarket/internal/utils"
	"ggmarket/internal/validators"
	"ggmarket/pkg/logger"
	"ggmarket/pkg/storage"
)

type ProductService interface {
	CreateProduct(ctx context.Context, sellerID primitive.ObjectID, request *validators.ProductCreateRequest) (*models.Product, error)
	GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, filter *interfaces.ProductFilter, params *utils.PaginationParams) ([]*models.Product, int64, error)
	UpdateProduct(ctx context.Context, productID, sellerID primitive.ObjectID, request *validators.ProductUpdateRequest) (*models.Product, error)
	SetStatus(ctx context.Context, productID primitive.ObjectID, status models.ProductStatus) error
	UploadImage(ctx context.Context, productID, sellerID primitive.ObjectID, reader io.Reader, contentType string) (string, error)
}

type productService struct {
	productRepo interfaces.ProductRepository
	userRepo    interfaces.UserRepository
	storage     storage.StorageProvider
	logger      *logger.Logger
}

func NewProductService(
	productRepo interfaces.ProductRepository,
	userRepo interfaces.UserRepository,
	storageProvider storage.StorageProvider,
	logger *logger.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		userRepo:    userRepo,
		storage:     storageProvider,
		logger:      logger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, sellerID primitive.ObjectID, request *validators.ProductCreateRequest) (*models.Product, error) {
	if errs := validators.ValidateProductCreate(request); errs != nil {
		return nil, utils.NewValidationError("INVALID_PRODUCT", errs.Error())
	}

	// New listings wait for moderation before buyers can see them.
	product := &models.Product{
		SellerID:       sellerID,
		Title:          request.Title,
		Description:    request.Description,
		Category:       models.ProductCategory(request.Category),
		Game:           request.Game,
		Price:          request.Price,
		Status:         models.ProductStatusPendingApproval,
		Conditions:     request.Conditions,
		Rarity:         request.Rarity,
		Level:          request.Level,
		DeliveryTime:   request.DeliveryTime,
		CommissionRate: utils.DefaultCommissionRate,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.WithUserID(sellerID).WithField("product_id", product.ID.Hex()).Info("Product listed")

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if seller, err := s.userRepo.GetByID(ctx, product.SellerID); err == nil {
		product.Seller = seller.Identity()
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter *interfaces.ProductFilter, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	products, total, err := s.productRepo.Find(ctx, filter, params)
	if err != nil {
		return nil, 0, err
	}

	s.attachSellers(ctx, products)

	return products, total, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID, sellerID primitive.ObjectID, request *validators.ProductUpdateRequest) (*models.Product, error) {
	if errs := validators.ValidateProductUpdate(request); errs != nil {
		return nil, utils.NewValidationError("INVALID_PRODUCT", errs.Error())
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, utils.NewForbiddenError("PRODUCT_ACCESS_DENIED", "product belongs to another seller")
	}

	updates := map[string]interface{}{}
	if request.Title != "" {
		updates["title"] = request.Title
	}
	if request.Description != "" {
		updates["description"] = request.Description
	}
	if request.Price > 0 {
		updates["price"] = request.Price
	}
	if request.DeliveryTime > 0 {
		updates["delivery_time"] = request.DeliveryTime
	}

	if len(updates) == 0 {
		return product, nil
	}

	if err := s.productRepo.Update(ctx, productID, updates); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, productID)
}

func (s *productService) SetStatus(ctx context.Context, productID primitive.ObjectID, status models.ProductStatus) error {
	if !status.Valid() {
		return utils.NewValidationError("INVALID_STATUS", "unknown product status")
	}

	return s.productRepo.Update(ctx, productID, map[string]interface{}{"status": status})
}

func (s *productService) UploadImage(ctx context.Context, productID, sellerID primitive.ObjectID, reader io.Reader, contentType string) (string, error) {
	if !utils.IsSupportedImageType(contentType) {
		return "", utils.NewValidationError("UNSUPPORTED_IMAGE", "unsupported image content type")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}

	if product.SellerID != sellerID {
		return "", utils.NewForbiddenError("PRODUCT_ACCESS_DENIED", "product belongs to another seller")
	}

	if len(product.Images) >= utils.MaxProductImages {
		return "", utils.NewValidationError("TOO_MANY_IMAGES", "image limit reached for this product")
	}

	thumbnail, err := utils.Thumbnail(reader, utils.ProductThumbnailWidth)
	if err != nil {
		return "", utils.NewValidationError("INVALID_IMAGE", "image could not be decoded")
	}

	key := fmt.Sprintf("products/%s/%d.jpg", productID.Hex(), time.Now().UnixNano())

	response, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(thumbnail),
		ContentType: "image/jpeg",
		Size:        int64(len(thumbnail)),
	})
	if err != nil {
		return "", utils.NewInternalError(err)
	}

	if err := s.productRepo.AddImage(ctx, productID, response.URL); err != nil {
		return "", err
	}

	return response.URL, nil
}

func (s *productService) attachSellers(ctx context.Context, products []*models.Product) {
	if len(products) == 0 {
		return
	}

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, product := range products {
		if !seen[product.SellerID] {
			seen[product.SellerID] = true
			ids = append(ids, product.SellerID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load seller identities")
		return
	}

	for _, product := range products {
		if user, ok := users[product.SellerID]; ok {
			product.Seller = user.Identity()
		}
	}
}
