package transport

import (
	"errors"
	"net/http"
	"strings"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/middleware"
	"admin-dashboard/internal/repository"
	"admin-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// resourceHandler is the CRUD surface shared by the user, product and
// category handlers
type resourceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// mountResource wires one endpoint convention onto a handler
func mountResource(r chi.Router, endpoints api.Endpoints, h resourceHandler) {
	r.Get(endpoints.List, h.List)
	r.Post(endpoints.Create, h.Create)
	r.Get(endpoints.Get, h.Get)
	r.Put(endpoints.Update, h.Update)
	r.Delete(endpoints.Delete, h.Delete)
}

// errorStatuses maps service and repository sentinels onto HTTP statuses
var errorStatuses = []struct {
	target error
	status int
}{
	{repository.ErrUserNotFound, http.StatusNotFound},
	{repository.ErrProductNotFound, http.StatusNotFound},
	{repository.ErrCategoryNotFound, http.StatusNotFound},
	{repository.ErrUserAlreadyExists, http.StatusConflict},
	{repository.ErrCategoryAlreadyExists, http.StatusConflict},
	{service.ErrPasswordRequired, http.StatusBadRequest},
	{service.ErrPasswordTooLong, http.StatusBadRequest},
}

// respondWithServiceError answers with the status matching err, or a 500
// naming the failed action
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			logger.Debug("Request rejected", zap.String("action", action), zap.Error(err))
			middleware.RespondWithError(w, e.status, e.target.Error())
			return
		}
	}

	logger.Error("Request failed", zap.String("action", action), zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "failed to "+action)
}

// pathID parses the {id} URL parameter, answering 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func searchQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("q"))
}

func toAPIUser(user *domain.User) api.User {
	out := api.User{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Mobile:    user.Mobile,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if user.CompanyName != "" {
		out.Company = &api.Company{Name: user.CompanyName}
	}
	return out
}

func toAPIUsers(users []*domain.User) []api.User {
	out := make([]api.User, 0, len(users))
	for _, user := range users {
		out = append(out, toAPIUser(user))
	}
	return out
}

func toUserInput(user api.User) service.UserInput {
	input := service.UserInput{
		Username: user.Username,
		Email:    user.Email,
		Mobile:   user.Mobile,
		Password: user.Password,
		Role:     user.Role,
	}
	if user.Company != nil {
		input.CompanyName = user.Company.Name
	}
	return input
}

func toAPIProduct(product *domain.Product) api.Product {
	return api.Product{
		ID:          product.ID.String(),
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		Quantity:    product.Quantity,
		Category:    product.Category,
		Image:       product.ImageURL,
		CreatedAt:   product.CreatedAt,
	}
}

func toAPIProducts(products []*domain.Product) []api.Product {
	out := make([]api.Product, 0, len(products))
	for _, product := range products {
		out = append(out, toAPIProduct(product))
	}
	return out
}

func toDomainProduct(product api.Product) *domain.Product {
	return &domain.Product{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Category:    product.Category,
		ImageURL:    product.Image,
	}
}

func toAPICategory(category *domain.Category) api.Category {
	return api.Category{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		Image:       category.ImageURL,
		Price:       category.Price,
		Type:        category.Type,
		CreatedAt:   category.CreatedAt,
	}
}

func toAPICategories(categories []*domain.Category) []api.Category {
	out := make([]api.Category, 0, len(categories))
	for _, category := range categories {
		out = append(out, toAPICategory(category))
	}
	return out
}

func toDomainCategory(category api.Category) *domain.Category {
	return &domain.Category{
		Name:        category.Name,
		Description: category.Description,
		ImageURL:    category.Image,
		Price:       category.Price,
		Type:        category.Type,
	}
}
