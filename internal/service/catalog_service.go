package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repository"

	"github.com/google/uuid"
)

// ProductService defines the catalog operations on products
type ProductService interface {
	ListProducts(ctx context.Context, query string) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// CategoryService defines the catalog operations on categories
type CategoryService interface {
	ListCategories(ctx context.Context, query string) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) ListProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// CreateProduct assigns the identifier and timestamps, then stores the product
func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	now := time.Now().UTC()
	product.ID = uuid.New()
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct replaces the editable fields of a stored product
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, product *domain.Product) (*domain.Product, error) {
	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	stored.Name = strings.TrimSpace(product.Name)
	stored.Description = product.Description
	stored.Price = product.Price
	stored.Quantity = product.Quantity
	stored.Category = strings.TrimSpace(product.Category)
	stored.ImageURL = product.ImageURL
	stored.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return stored, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) ListCategories(ctx context.Context, query string) ([]*domain.Category, error) {
	categories, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	category.ID = uuid.New()
	category.Name = strings.TrimSpace(category.Name)
	category.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory rewrites a category in place; the repository reports the
// original creation time back
func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, category *domain.Category) (*domain.Category, error) {
	category.ID = id
	category.Name = strings.TrimSpace(category.Name)

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
