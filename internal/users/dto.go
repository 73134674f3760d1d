package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartinv/inventory-backend/pkg/db/models"
	"github.com/smartinv/inventory-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID           uuid.UUID      `json:"id"`
	Username     string         `json:"username"`
	Email        *string        `json:"email,omitempty"`
	Name         string         `json:"name"`
	Role         enums.UserRole `json:"role"`
	Avatar       *string        `json:"avatar,omitempty"`
	Phone        *string        `json:"phone,omitempty"`
	PlaceOfBirth *string        `json:"placeOfBirth,omitempty"`
	DateOfBirth  *string        `json:"dateOfBirth,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	ID           uuid.UUID
	Username     string
	Email        *string
	PasswordHash string
	Name         string
	Role         enums.UserRole
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Avatar:       u.Avatar,
		Phone:        u.Phone,
		PlaceOfBirth: u.POB,
		DateOfBirth:  u.DOB,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// FromModels maps a slice, preserving order.
func FromModels(models []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(models))
	for i := range models {
		dtos = append(dtos, *FromModel(&models[i]))
	}
	return dtos
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           c.ID,
		Username:     c.Username,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Role:         c.Role,
	}
}
