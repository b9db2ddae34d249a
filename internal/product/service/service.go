// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"

	producterrors "github.com/abgdnv/productsctl/internal/product/errors"
	"github.com/abgdnv/productsctl/internal/product/model"
	"github.com/abgdnv/productsctl/internal/product/store"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*model.Product, error)

	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]model.Product, error)

	// Create adds a new product to the system.
	Create(ctx context.Context, input model.ProductCreate) (*model.Product, error)

	// Update applies a partial update to a product.
	// Returns ErrNoFieldsToUpdate for an empty patch and ErrProductNotFound for an unknown ID.
	Update(ctx context.Context, id int64, patch model.ProductUpdate) (*model.Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// service implements ProductService and provides methods to manage products.
type service struct {
	repository store.ProductStore
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) ProductService {
	return &service{
		repository: repo,
	}
}

// FindByID retrieves a product by its ID.
func (s *service) FindByID(_ context.Context, id int64) (*model.Product, error) {
	product, err := s.repository.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return product, nil
}

// FindAll retrieves a list of all products.
func (s *service) FindAll(_ context.Context) ([]model.Product, error) {
	products, err := s.repository.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// Create creates a new product.
func (s *service) Create(_ context.Context, input model.ProductCreate) (*model.Product, error) {
	p, err := s.repository.Create(input)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

// Update checks that the product exists before rejecting an empty patch, so an
// unknown ID always reports not found.
func (s *service) Update(_ context.Context, id int64, patch model.ProductUpdate) (*model.Product, error) {
	if _, err := s.repository.FindByID(id); err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if patch.IsEmpty() {
		return nil, producterrors.ErrNoFieldsToUpdate
	}
	updated, err := s.repository.Update(id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	return updated, nil
}

// DeleteByID deletes a product by its ID.
func (s *service) DeleteByID(_ context.Context, id int64) error {
	if err := s.repository.DeleteByID(id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return nil
}
