package service

import (
	"context"
	"errors"
	"testing"

	producterrors "github.com/abgdnv/productsctl/internal/product/errors"
	"github.com/abgdnv/productsctl/internal/product/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	products    []model.Product
	product     model.Product
	error       error
	findError   error
	updateCalls int
}

// Simulate finding a product by ID
func (m *mockProductStore) FindByID(_ int64) (*model.Product, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	return &m.product, m.error
}

// Simulate finding all products
func (m *mockProductStore) FindAll() ([]model.Product, error) {
	return m.products, m.error
}

// Simulate creating a product
func (m *mockProductStore) Create(_ model.ProductCreate) (*model.Product, error) {
	return &m.product, m.error
}

// Simulate updating a product
func (m *mockProductStore) Update(_ int64, _ model.ProductUpdate) (*model.Product, error) {
	m.updateCalls++
	return &m.product, m.error
}

// Simulate deleting a product by ID
func (m *mockProductStore) DeleteByID(_ int64) error {
	return m.error
}

func Test_ProductService_FindByID(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   int64
		expected    *model.Product
		expectError error
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: model.Product{ID: 1, Name: "Toy"},
			},
			productID: 1,
			expected:  &model.Product{ID: 1, Name: "Toy"},
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				findError: producterrors.ErrProductNotFound,
			},
			productID:   2,
			expectError: producterrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindAll(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name         string
		mockStore    *mockProductStore
		expectedList []model.Product
		expectError  error
	}{
		{
			name: "Success - products found",
			mockStore: &mockProductStore{
				products: []model.Product{{ID: 1, Name: "Toy"}},
			},
			expectedList: []model.Product{{ID: 1, Name: "Toy"}},
		},
		{
			name: "Success - no products",
			mockStore: &mockProductStore{
				products: []model.Product{},
			},
			expectedList: []model.Product{},
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindAll(context.Background())
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedList, found)
		})
	}
}

func Test_ProductService_Create(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		input       model.ProductCreate
		expected    *model.Product
		expectError error
	}{
		{
			name: "Success - product created",
			mockStore: &mockProductStore{
				product: model.Product{ID: 1, Name: "Toy", Price: 100, Stock: 10},
			},
			input:    model.ProductCreate{Name: "Toy", Price: 100, Stock: 10},
			expected: &model.Product{ID: 1, Name: "Toy", Price: 100, Stock: 10},
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			input:       model.ProductCreate{Name: "Toy", Price: 100, Stock: 10},
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			created, err := service.Create(context.Background(), tc.input)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, created)
		})
	}
}

func Test_ProductService_Update(t *testing.T) {
	price := 45.0
	testCases := []struct {
		name                string
		mockStore           *mockProductStore
		patch               model.ProductUpdate
		expected            *model.Product
		expectError         error
		expectedUpdateCalls int
	}{
		{
			name: "Success - product updated",
			mockStore: &mockProductStore{
				product: model.Product{ID: 1, Name: "Keyboard", Price: 45, Stock: 20},
			},
			patch:               model.ProductUpdate{Price: &price},
			expected:            &model.Product{ID: 1, Name: "Keyboard", Price: 45, Stock: 20},
			expectedUpdateCalls: 1,
		},
		{
			name: "Error - empty patch",
			mockStore: &mockProductStore{
				product: model.Product{ID: 1},
			},
			patch:               model.ProductUpdate{},
			expectError:         producterrors.ErrNoFieldsToUpdate,
			expectedUpdateCalls: 0,
		},
		{
			name: "Error - product not found wins over empty patch",
			mockStore: &mockProductStore{
				findError: producterrors.ErrProductNotFound,
			},
			patch:               model.ProductUpdate{},
			expectError:         producterrors.ErrProductNotFound,
			expectedUpdateCalls: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			updated, err := service.Update(context.Background(), 1, tc.patch)
			// then
			assert.Equal(t, tc.expectedUpdateCalls, tc.mockStore.updateCalls)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, updated)
		})
	}
}

func Test_ProductService_DeleteByID(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   int64
		expectError error
	}{
		{
			name:      "Success - product deleted",
			mockStore: &mockProductStore{},
			productID: 1,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: producterrors.ErrProductNotFound,
			},
			productID:   2,
			expectError: producterrors.ErrProductNotFound,
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			productID:   3,
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			err := service.DeleteByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}
