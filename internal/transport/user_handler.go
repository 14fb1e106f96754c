package transport

import (
	"net/http"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/middleware"
	"admin-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler serves the managed-user resource under both URL conventions
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes mounts /api/users and its legacy alias /users + /addUsers.
// Callers are expected to have applied auth already.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	mountResource(r, api.UsersCanonical, h)
	mountResource(r, api.UsersLegacy, h)
}

// List returns every user, optionally filtered by ?q=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), searchQuery(r))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toAPIUsers(users))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toAPIUser(user))
}

// Create adds a user; a password is mandatory here
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.User
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}
	// An id in the body must not relax the create-only password rule
	req.ID = ""
	if err := middleware.ValidateRequest(&req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), toUserInput(req))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create user")
		return
	}

	h.logger.Info("User created", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toAPIUser(user))
}

// Update rewrites a user; a blank password keeps the current one
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req api.User
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}
	req.ID = id.String()
	if err := middleware.ValidateRequest(&req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, toUserInput(req))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update user")
		return
	}

	h.logger.Info("User updated", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, toAPIUser(user))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete user")
		return
	}

	h.logger.Info("User deleted", zap.String("user_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, api.MessageResponse{Message: "user deleted"})
}
