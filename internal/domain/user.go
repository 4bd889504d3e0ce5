package domain

import (
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a storefront account.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserProfile is the 1:1 extension of a user.
type UserProfile struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Bio       string    `json:"bio" db:"bio"`
	Picture   string    `json:"picture,omitempty" db:"picture"`
	Region    Region    `json:"region,omitempty" db:"region"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewUserProfile is the single place a profile comes into existence; registration
// calls it right after building the user.
func NewUserProfile(user *User) *UserProfile {
	return &UserProfile{
		UserID:    user.ID,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}
}

// NewCart builds the empty cart every user starts with.
func NewCart(id string, user *User) *Cart {
	return &Cart{
		ID:        id,
		UserID:    user.ID,
		Movies:    []*Movie{},
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}
}

// RegisterRequest is the sign-up body.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=30"`
	LastName  string `json:"last_name" validate:"required,max=30"`
	Password  string `json:"password" validate:"required,min=6,max=100"`
}

// LoginRequest is the sign-in body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileRequest edits the profile; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Bio     *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Picture *string `json:"picture,omitempty" validate:"omitempty,max=500"`
	Region  *string `json:"region,omitempty"`
}

// Account is a user together with their profile.
type Account struct {
	User    *User        `json:"user"`
	Profile *UserProfile `json:"profile"`
}
