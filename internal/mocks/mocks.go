// Package mocks provides testify mocks for the service store interfaces.
package mocks

import (
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/example/bazaar/internal/models"
)

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderStore) Save(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderStore) OrderIDTaken(orderID string) (bool, error) {
	args := m.Called(orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderStore) ByKey(id uuid.UUID) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) ByOrderID(orderID string) (*models.Order, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) ByUser(userID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderStore) All() ([]models.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStore) HasPurchase(userID, productID uuid.UUID) (bool, error) {
	args := m.Called(userID, productID)
	return args.Bool(0), args.Error(1)
}

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) ByID(id uuid.UUID) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) Save(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductStore) CountBySeller(sellerID uuid.UUID) (int64, error) {
	args := m.Called(sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductStore) ReviewsByProduct(productID uuid.UUID) ([]models.Review, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockProductStore) ReviewBy(productID, userID uuid.UUID) (*models.Review, error) {
	args := m.Called(productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockProductStore) AddReview(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockProductStore) SaveReview(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockProductStore) ReviewByID(productID, reviewID uuid.UUID) (*models.Review, error) {
	args := m.Called(productID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) ItemsByUser(userID uuid.UUID) ([]models.CartItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartStore) Clear(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) SaveFile(file *multipart.FileHeader, folder string) (string, error) {
	args := m.Called(file, folder)
	return args.String(0), args.Error(1)
}
