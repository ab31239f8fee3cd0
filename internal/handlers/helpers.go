package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
)

// currentUserID reads the authenticated user from the gin context set by the
// auth middleware. The second return is false when the route is somehow
// reachable without authentication.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}

	userID, ok := value.(primitive.ObjectID)
	return userID, ok
}

func isStaff(c *gin.Context) bool {
	role := c.GetString("user_role")
	return role == string(models.UserRoleAdmin) || role == string(models.UserRoleModerator)
}

func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
