package transport

import (
	"context"
	"strings"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories so handler tests exercise the real services

type memoryUsers struct {
	byID  map[uuid.UUID]domain.User
	order []uuid.UUID
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[uuid.UUID]domain.User{}}
}

func (m *memoryUsers) Create(ctx context.Context, user *domain.User) error {
	if _, err := m.FindByEmail(ctx, user.Email); err == nil {
		return repository.ErrUserAlreadyExists
	}
	m.byID[user.ID] = *user
	m.order = append(m.order, user.ID)
	return nil
}

func (m *memoryUsers) Update(ctx context.Context, user *domain.User) error {
	if _, ok := m.byID[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	if other, err := m.FindByEmail(ctx, user.Email); err == nil && other.ID != user.ID {
		return repository.ErrUserAlreadyExists
	}
	m.byID[user.ID] = *user
	return nil
}

func (m *memoryUsers) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.byID {
		if user.Email == strings.ToLower(email) {
			return &user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (m *memoryUsers) List(ctx context.Context, query string) ([]*domain.User, error) {
	query = strings.ToLower(query)
	var out []*domain.User
	for _, id := range m.order {
		user, ok := m.byID[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(user.Username+" "+user.Email), query) {
			out = append(out, &user)
		}
	}
	return out, nil
}

type memoryTokens struct {
	tokens map[string]*domain.RefreshToken
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]*domain.RefreshToken{}}
}

func (m *memoryTokens) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *memoryTokens) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	found, ok := m.tokens[token]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if found.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return found, nil
}

func (m *memoryTokens) Revoke(ctx context.Context, token string) error {
	found, ok := m.tokens[token]
	if !ok {
		return repository.ErrRefreshTokenNotFound
	}
	found.Revoked = true
	return nil
}

func (m *memoryTokens) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, token := range m.tokens {
		if token.UserID == userID && !token.Revoked {
			token.Revoked = true
			n++
		}
	}
	return n, nil
}

type memoryProducts struct {
	byID  map[uuid.UUID]domain.Product
	order []uuid.UUID
}

func newMemoryProducts() *memoryProducts {
	return &memoryProducts{byID: map[uuid.UUID]domain.Product{}}
}

func (m *memoryProducts) Create(ctx context.Context, product *domain.Product) error {
	m.byID[product.ID] = *product
	m.order = append(m.order, product.ID)
	return nil
}

func (m *memoryProducts) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.byID[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.byID[product.ID] = *product
	return nil
}

func (m *memoryProducts) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryProducts) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &product, nil
}

func (m *memoryProducts) List(ctx context.Context, query string) ([]*domain.Product, error) {
	query = strings.ToLower(query)
	var out []*domain.Product
	for _, id := range m.order {
		product, ok := m.byID[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(product.Name+" "+product.Description), query) {
			out = append(out, &product)
		}
	}
	return out, nil
}

type memoryCategories struct {
	byID  map[uuid.UUID]domain.Category
	order []uuid.UUID
}

func newMemoryCategories() *memoryCategories {
	return &memoryCategories{byID: map[uuid.UUID]domain.Category{}}
}

func (m *memoryCategories) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.byID {
		if existing.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.byID[category.ID] = *category
	m.order = append(m.order, category.ID)
	return nil
}

func (m *memoryCategories) Update(ctx context.Context, category *domain.Category) error {
	existing, ok := m.byID[category.ID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	category.CreatedAt = existing.CreatedAt
	m.byID[category.ID] = *category
	return nil
}

func (m *memoryCategories) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryCategories) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return &category, nil
}

func (m *memoryCategories) List(ctx context.Context, query string) ([]*domain.Category, error) {
	query = strings.ToLower(query)
	var out []*domain.Category
	for _, id := range m.order {
		category, ok := m.byID[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(category.Name+" "+category.Description), query) {
			out = append(out, &category)
		}
	}
	return out, nil
}
