package api

// RegisterRequest is the payload of POST /api/register
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,bytesmax=72"`
}

// LoginRequest is the payload of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,bytesmax=72"`
}

// RefreshRequest carries a refresh token for /api/refresh and /api/logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is the {success, message, user} envelope returned by the
// session endpoints. Tokens are only present on success.
type AuthResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	User         *User             `json:"user,omitempty"`
	AccessToken  string            `json:"access_token,omitempty"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	Errors       []ValidationError `json:"errors,omitempty"`
}

// RefreshResponse is returned by /api/refresh
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// MessageResponse is the body of delete and logout responses
type MessageResponse struct {
	Message string `json:"message"`
}

// DataResponse wraps a record, as the category update endpoint does
type DataResponse[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
