package validators

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewCreateRequest struct {
	ReviewedUserID primitive.ObjectID `json:"reviewed_user_id" validate:"required,object_id"`
	TransactionID  primitive.ObjectID `json:"transaction_id" validate:"required,object_id"`
	Rating         int                `json:"rating" validate:"required,rating_value"`
	Comment        string             `json:"comment" validate:"omitempty,max=1000"`
}

func ValidateReviewCreate(req *ReviewCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}
