// Package store provides an interface for product storage operations.
package store

import "github.com/abgdnv/productsctl/internal/product/model"

// ProductStore is an interface for product storage operations.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(id int64) (*model.Product, error)

	// FindAll returns all available products ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll() ([]model.Product, error)

	// Create adds a new product and assigns it the next ID.
	Create(input model.ProductCreate) (*model.Product, error)

	// Update applies the non-nil fields of patch to the product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(id int64, patch model.ProductUpdate) (*model.Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(id int64) error
}
