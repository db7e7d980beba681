package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse serializes an account without credentials.
type UserResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// AuthResponse carries a token alongside the account.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// UserFromDomain maps a user to its response form.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// SettingsRequest payload.
type SettingsRequest struct {
	AutoCloseEnabled    bool    `json:"autoCloseEnabled"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
	SLAHours            int     `json:"slaHours"`
}

// SettingsResponse serializes triage settings.
type SettingsResponse struct {
	AutoCloseEnabled    bool    `json:"autoCloseEnabled"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
	SLAHours            int     `json:"slaHours"`
}

// SettingsFromDomain maps settings to their response form.
func SettingsFromDomain(s domain.TriageSettings) SettingsResponse {
	return SettingsResponse{
		AutoCloseEnabled:    s.AutoCloseEnabled,
		ConfidenceThreshold: s.ConfidenceThreshold,
		SLAHours:            s.SLAHours,
	}
}
