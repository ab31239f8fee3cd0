package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateReputation persists the derived rating mean. Called only by the
	// review service after a full recompute.
	UpdateReputation(ctx context.Context, id primitive.ObjectID, reputation float64) error
	CreditBalance(ctx context.Context, id primitive.ObjectID, amount float64) error
}
