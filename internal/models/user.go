package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"

	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username   string             `json:"username" bson:"username" validate:"required,min=3,max=30"`
	Email      string             `json:"email" bson:"email" validate:"required,email"`
	Password   string             `json:"-" bson:"password"`
	AvatarURL  string             `json:"avatar_url" bson:"avatar_url"`
	Bio        string             `json:"bio" bson:"bio"`
	Discord    string             `json:"discord" bson:"discord"`
	Steam      string             `json:"steam" bson:"steam"`
	Balance    float64            `json:"balance" bson:"balance"`
	Role       UserRole           `json:"role" bson:"role" default:"user"`
	Status     UserStatus         `json:"status" bson:"status" default:"active"`
	IsVerified bool               `json:"is_verified" bson:"is_verified" default:"false"`
	// Reputation is derived: round(mean of all ratings received, 1).
	// Owned by the review service; never written anywhere else.
	Reputation  float64    `json:"reputation" bson:"reputation"`
	LastLoginAt *time.Time `json:"last_login_at" bson:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// UserIdentity is the public projection attached to reviews, tickets and
// ticket messages when enriching responses.
type UserIdentity struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email,omitempty" bson:"email"`
	AvatarURL string             `json:"avatar_url" bson:"avatar_url"`
}

func (u *User) Identity() *UserIdentity {
	return &UserIdentity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
