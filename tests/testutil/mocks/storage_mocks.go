package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

// MockContentStore is a mock of service.ContentStore
type MockContentStore struct {
	mock.Mock
}

func NewMockContentStore(t *testing.T) *MockContentStore {
	m := &MockContentStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockContentStore) Put(ctx context.Context, key valueobject.StorageKey, content []byte) (string, error) {
	args := m.Called(ctx, key, content)
	return args.String(0), args.Error(1)
}

func (m *MockContentStore) Get(ctx context.Context, location string) ([]byte, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockContentStore) Delete(ctx context.Context, location string) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockContentStore) DeleteAll(ctx context.Context, namespace string) error {
	args := m.Called(ctx, namespace)
	return args.Error(0)
}

func (m *MockContentStore) ListNamespaces(ctx context.Context) ([]service.StoredNamespace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.StoredNamespace), args.Error(1)
}
