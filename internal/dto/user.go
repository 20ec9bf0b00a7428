package dto

import (
	"time"

	"github.com/yukikurage/workspace-task-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SignupRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	Password  *string `json:"password,omitempty" binding:"omitempty,min=6,max=72"`
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,min=1,max=100"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// CurrentUserResponse is returned by /auth/me
type CurrentUserResponse struct {
	User UserDTO `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
