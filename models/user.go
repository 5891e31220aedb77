package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a storefront account. Password holds the bcrypt hash only.
type User struct {
	ID          string    `json:"id" bson:"-"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Password    string    `json:"-" bson:"password"`
	Role        Role      `json:"role" bson:"role"`
	Verified    bool      `json:"verified" bson:"verified"`
	VerifyToken string    `json:"-" bson:"verifyToken,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type SignUpInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserPublic struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type SignInResp struct {
	Token string     `json:"token"`
	User  UserPublic `json:"user"`
}
