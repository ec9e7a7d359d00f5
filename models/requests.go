package models

// LoginRequest is the credential payload for POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the registration payload for POST /api/auth/signup
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	Username  string `json:"username"`
}

// UpdateUserRequest carries the mutable user fields for profile updates
type UpdateUserRequest struct {
	Email string   `json:"email,omitempty" validate:"omitempty,email"`
	Roles []string `json:"roles,omitempty"`
}

// BulkDisableRequest names the accounts an administrator wants disabled
type BulkDisableRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1"`
}
