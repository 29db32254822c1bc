package usecase

import (
	"context"
	"io"
	"sync"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// MockCatalogGateway is a mock implementation of domain.CatalogGateway
type MockCatalogGateway struct {
	mock.Mock
}

func (m *MockCatalogGateway) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *MockCatalogGateway) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	saved, _ := args.Get(0).(*domain.Product)
	return saved, args.Error(1)
}

func (m *MockCatalogGateway) Update(ctx context.Context, storageID string, product domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, storageID, product)
	saved, _ := args.Get(0).(*domain.Product)
	return saved, args.Error(1)
}

func (m *MockCatalogGateway) Delete(ctx context.Context, storageID string) error {
	args := m.Called(ctx, storageID)
	return args.Error(0)
}

func (m *MockCatalogGateway) UploadAsset(ctx context.Context, asset domain.Asset) (string, error) {
	args := m.Called(ctx, asset)
	return args.String(0), args.Error(1)
}

// MockOrderGateway is a mock implementation of domain.OrderGateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) List(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *MockOrderGateway) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	saved, _ := args.Get(0).(*domain.Order)
	return saved, args.Error(1)
}

func (m *MockOrderGateway) Get(ctx context.Context, storageID string) (*domain.Order, error) {
	args := m.Called(ctx, storageID)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *MockOrderGateway) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Order, error) {
	args := m.Called(ctx, query)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *MockOrderGateway) UpdateStatus(ctx context.Context, storageID string, status domain.OrderStatus, paymentID *string) (*domain.Order, error) {
	args := m.Called(ctx, storageID, status, paymentID)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *MockOrderGateway) Delete(ctx context.Context, storageID string) error {
	args := m.Called(ctx, storageID)
	return args.Error(0)
}

type notificationLog struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (l *notificationLog) Notify(n domain.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, n)
}

func (l *notificationLog) All() []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Notification(nil), l.items...)
}

func (l *notificationLog) Last() domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) == 0 {
		return domain.Notification{}
	}
	return l.items[len(l.items)-1]
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func ptr[T any](v T) *T { return &v }
