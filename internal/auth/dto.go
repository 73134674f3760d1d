package auth

import (
	"github.com/smartinv/inventory-backend/internal/users"
	"github.com/smartinv/inventory-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the access token and the authenticated user.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType"`
	User        *users.UserDTO `json:"user"`
}

// RegisterRequest contains the payload for creating a new account.
type RegisterRequest struct {
	Username string         `json:"username" validate:"required,min=3"`
	Password string         `json:"password" validate:"required,min=8"`
	Name     string         `json:"name" validate:"required"`
	Email    *string        `json:"email,omitempty" validate:"omitempty,email"`
	Role     enums.UserRole `json:"role,omitempty"`
}

// UpdateProfileRequest carries optional profile mutations. Username and role
// are immutable and deliberately absent.
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Password     *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Avatar       *string `json:"avatar,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	PlaceOfBirth *string `json:"placeOfBirth,omitempty"`
	DateOfBirth  *string `json:"dateOfBirth,omitempty"`
}
