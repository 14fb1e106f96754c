package transport

import (
	"errors"
	"net/http"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/middleware"
	"admin-dashboard/internal/repository"
	"admin-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthHandler serves the session endpoints the login and register screens
// talk to
type AuthHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the public session routes. Every middleware in
// guards (typically the rate limiter) wraps them.
func (h *AuthHandler) RegisterRoutes(r chi.Router, guards ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(guards...)
		r.Post(api.PathRegister, h.Register)
		r.Post(api.PathLogin, h.Login)
		r.Post(api.PathRefresh, h.RefreshToken)
		r.Post(api.PathLogout, h.Logout)
	})
}

func authFailure(w http.ResponseWriter, status int, message string, fieldErrors []api.ValidationError) {
	middleware.RespondWithJSON(w, status, api.AuthResponse{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	})
}

// decodeAuthRequest answers malformed or invalid bodies in the auth envelope
func (h *AuthHandler) decodeAuthRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := middleware.DecodeAndValidate(w, r, v)
	if err == nil {
		return true
	}

	h.logger.Debug("Auth request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	if fieldErrors := api.FormatValidationErrors(err); len(fieldErrors) > 0 {
		authFailure(w, http.StatusBadRequest, "validation failed", fieldErrors)
		return false
	}
	authFailure(w, http.StatusBadRequest, "invalid request body", nil)
	return false
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !h.decodeAuthRequest(w, r, &req) {
		return
	}

	user, tokens, err := h.userService.Register(r.Context(), req.Username, req.Mobile, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			authFailure(w, http.StatusConflict, err.Error(), nil)
			return
		}
		if errors.Is(err, service.ErrPasswordTooLong) {
			authFailure(w, http.StatusBadRequest, "validation failed", []api.ValidationError{
				{Field: "password", Message: "Value is too long"},
			})
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		authFailure(w, http.StatusInternalServerError, "failed to register user", nil)
		return
	}

	profile := toAPIUser(user)
	h.logger.Info("User registered successfully", zap.String("user_id", profile.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, api.AuthResponse{
		Success:      true,
		Message:      "Registration successful",
		User:         &profile,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !h.decodeAuthRequest(w, r, &req) {
		return
	}

	user, tokens, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Debug("Login failed", zap.Error(err))
			authFailure(w, http.StatusUnauthorized, err.Error(), nil)
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		authFailure(w, http.StatusInternalServerError, "failed to login", nil)
		return
	}

	profile := toAPIUser(user)
	h.logger.Info("User logged in successfully", zap.String("user_id", profile.ID))
	middleware.RespondWithJSON(w, http.StatusOK, api.AuthResponse{
		Success:      true,
		Message:      "Login successful",
		User:         &profile,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout revokes the refresh token in the body. Unknown tokens count as
// already logged out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	if err := h.userService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	h.logger.Info("User logged out successfully")
	middleware.RespondWithJSON(w, http.StatusOK, api.MessageResponse{Message: "logged out successfully"})
}

// RefreshToken trades a refresh token for a new access token
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	newAccessToken, err := h.userService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Token refresh failed", zap.Error(err))

		switch {
		case errors.Is(err, service.ErrInvalidToken):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, service.ErrTokenExpired):
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
		default:
			h.logger.Error("Token refresh failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, api.RefreshResponse{AccessToken: newAccessToken})
}
