package store

import (
	"cmp"
	"slices"
	"sync"

	"github.com/abgdnv/productsctl/internal/product/errors"
	"github.com/abgdnv/productsctl/internal/product/model"
)

// inMemory implements ProductStore using an in-memory map.
type inMemory struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	nextID   int64
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[int64]model.Product),
		nextID:   1,
	}
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(id int64) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, errors.ErrProductNotFound
	}
	return &p, nil
}

// FindAll retrieves all products.
func (s *inMemory) FindAll() ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b model.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return list, nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(input model.ProductCreate) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := model.Product{
		ID:    s.nextID,
		Name:  input.Name,
		Price: input.Price,
		Stock: input.Stock,
	}
	s.nextID++
	s.products[product.ID] = product

	return &product, nil
}

// Update applies a partial update to a product.
func (s *inMemory) Update(id int64, patch model.ProductUpdate) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, errors.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	s.products[id] = p
	return &p, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return errors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
