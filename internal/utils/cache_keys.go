package utils

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func RatingStatsCacheKey(userID primitive.ObjectID) string {
	return fmt.Sprintf("rating_stats_%s", userID.Hex())
}

func ProductCacheKey(productID primitive.ObjectID) string {
	return fmt.Sprintf("product_%s", productID.Hex())
}
