package dto

import (
	"github.com/jaideep-27/insightwiz/internal/domain/user"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries a partial profile update.
type UpdateProfileRequest struct {
	Name        string                 `json:"name"`
	Preferences map[string]interface{} `json:"preferences"`
}

// UserPayload is the public projection of an account.
type UserPayload struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Email       string                 `json:"email"`
	Preferences map[string]interface{} `json:"preferences"`
}

// AuthResponse wraps a token issue.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserPayload `json:"user"`
}

// ProfileResponse wraps profile reads and updates.
type ProfileResponse struct {
	Message string      `json:"message,omitempty"`
	User    UserPayload `json:"user"`
}

// ToUserPayload projects a domain user for API responses.
func ToUserPayload(u *user.User) UserPayload {
	return UserPayload{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Preferences: u.Preferences,
	}
}
