package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
)

// MockFileVersionRepository is a mock of repository.FileVersionRepository
type MockFileVersionRepository struct {
	mock.Mock
}

func NewMockFileVersionRepository(t *testing.T) *MockFileVersionRepository {
	m := &MockFileVersionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFileVersionRepository) Create(ctx context.Context, version *entity.FileVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockFileVersionRepository) FindByFileID(ctx context.Context, fileID uuid.UUID) ([]*entity.FileVersion, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FileVersion), args.Error(1)
}

func (m *MockFileVersionRepository) FindByFileAndVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*entity.FileVersion, error) {
	args := m.Called(ctx, fileID, versionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FileVersion), args.Error(1)
}

func (m *MockFileVersionRepository) FindLatestByFileIDs(ctx context.Context, fileIDs []uuid.UUID) (map[uuid.UUID]*entity.FileVersion, error) {
	args := m.Called(ctx, fileIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*entity.FileVersion), args.Error(1)
}
