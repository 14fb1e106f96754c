package transport

import (
	"net/http"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/middleware"
	"admin-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler serves the category routes. Their paths are verbs
// (/getcategory, /addcategory, ...) and update answers {message, data}.
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	mountResource(r, api.Categories, h)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context(), searchQuery(r))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toAPICategories(categories))
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toAPICategory(category))
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.Category
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), toDomainCategory(req))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create category")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toAPICategory(category))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req api.Category
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), id, toDomainCategory(req))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update category")
		return
	}

	h.logger.Info("Category updated", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, api.DataResponse[api.Category]{
		Message: "category updated",
		Data:    toAPICategory(category),
	})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete category")
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, api.MessageResponse{Message: "category deleted"})
}
