// Package model defines the product representations exchanged with the products API.
package model

// Product represents a product as returned by the products API.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int64   `json:"stock"`
}

// ProductCreate is the payload for creating a product. The server assigns the ID.
type ProductCreate struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int64   `json:"stock"`
}

// ProductUpdate is a partial update. A nil field is left unchanged and is not sent.
type ProductUpdate struct {
	Name  *string  `json:"name,omitempty" validate:"omitempty,notblank"`
	Price *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock *int64   `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether the update carries no fields.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.Stock == nil
}

// DeleteResult is the confirmation returned after a product is removed.
type DeleteResult struct {
	Message string `json:"message"`
}
