package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductCategory string
type ProductStatus string

const (
	ProductCategoryAccount  ProductCategory = "account"
	ProductCategorySkin     ProductCategory = "skin"
	ProductCategoryService  ProductCategory = "service"
	ProductCategoryGiftcard ProductCategory = "giftcard"

	ProductStatusPendingApproval ProductStatus = "pending_approval"
	ProductStatusActive          ProductStatus = "active"
	ProductStatusPaused          ProductStatus = "paused"
	ProductStatusRemoved         ProductStatus = "removed"
)

type Product struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SellerID       primitive.ObjectID `json:"seller_id" bson:"seller_id" validate:"required"`
	Title          string             `json:"title" bson:"title" validate:"required,max=150"`
	Description    string             `json:"description" bson:"description" validate:"required,max=5000"`
	Category       ProductCategory    `json:"category" bson:"category" validate:"required"`
	Game           string             `json:"game" bson:"game" validate:"required"`
	Price          float64            `json:"price" bson:"price" validate:"required,gt=0"`
	Status         ProductStatus      `json:"status" bson:"status" default:"pending_approval"`
	Images         []string           `json:"images" bson:"images"`
	Conditions     []string           `json:"conditions" bson:"conditions"`
	Rarity         string             `json:"rarity" bson:"rarity"`
	Level          int                `json:"level" bson:"level"`
	DeliveryTime   int                `json:"delivery_time" bson:"delivery_time"` // hours
	CommissionRate float64            `json:"commission_rate" bson:"commission_rate"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`

	Seller *UserIdentity `json:"seller,omitempty" bson:"-"`
}

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusPendingApproval, ProductStatusActive, ProductStatusPaused, ProductStatusRemoved:
		return true
	}
	return false
}

func (c ProductCategory) Valid() bool {
	switch c {
	case ProductCategoryAccount, ProductCategorySkin, ProductCategoryService, ProductCategoryGiftcard:
		return true
	}
	return false
}
