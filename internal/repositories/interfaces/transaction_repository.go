package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/utils"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Transaction, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
}
