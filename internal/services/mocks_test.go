package services_test

import (
	"context"
	"sync"

	"github.com/firmtemplate/firm-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockLeadSink is a mock implementation of services.LeadSink
type MockLeadSink struct {
	mock.Mock
}

func (m *MockLeadSink) Deliver(ctx context.Context, lead *models.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockStorage is a mock implementation of exitintent.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStorage) SetItem(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// memoryStorage is a working exitintent.Storage for flow tests
type memoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{items: map[string]string{}}
}

func (m *memoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}
