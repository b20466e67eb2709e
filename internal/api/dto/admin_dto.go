package dto

import "time"

// AdminLoginRequest payload for password login.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// IdentityProviderLoginRequest carries the ID token the identity provider
// issued to the signed-in user.
type IdentityProviderLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
