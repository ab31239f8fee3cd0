package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/utils"
)

type ProductFilter struct {
	Category models.ProductCategory
	Game     string
	Status   models.ProductStatus
	SellerID primitive.ObjectID
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, filter *ProductFilter, params *utils.PaginationParams) ([]*models.Product, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	AddImage(ctx context.Context, id primitive.ObjectID, imageURL string) error
}
