package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

// MockVersionLedger is a mock of service.VersionLedger
type MockVersionLedger struct {
	mock.Mock
}

func NewMockVersionLedger(t *testing.T) *MockVersionLedger {
	m := &MockVersionLedger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockVersionLedger) CreateFile(ctx context.Context, name valueobject.FileName, content string) (*entity.File, *entity.FileVersion, error) {
	args := m.Called(ctx, name, content)
	var file *entity.File
	var version *entity.FileVersion
	if args.Get(0) != nil {
		file = args.Get(0).(*entity.File)
	}
	if args.Get(1) != nil {
		version = args.Get(1).(*entity.FileVersion)
	}
	return file, version, args.Error(2)
}

func (m *MockVersionLedger) AddVersion(ctx context.Context, fileID uuid.UUID, content string) (*entity.FileVersion, error) {
	args := m.Called(ctx, fileID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FileVersion), args.Error(1)
}

func (m *MockVersionLedger) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

func (m *MockVersionLedger) FindByName(ctx context.Context, name valueobject.FileName) (*entity.File, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.File), args.Error(1)
}

func (m *MockVersionLedger) GetLatest(ctx context.Context, fileID uuid.UUID) (*entity.File, *entity.FileVersion, error) {
	args := m.Called(ctx, fileID)
	var file *entity.File
	var version *entity.FileVersion
	if args.Get(0) != nil {
		file = args.Get(0).(*entity.File)
	}
	if args.Get(1) != nil {
		version = args.Get(1).(*entity.FileVersion)
	}
	return file, version, args.Error(2)
}

func (m *MockVersionLedger) GetVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*entity.FileVersion, error) {
	args := m.Called(ctx, fileID, versionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FileVersion), args.Error(1)
}

func (m *MockVersionLedger) ListVersions(ctx context.Context, fileID uuid.UUID) (*entity.File, []*entity.FileVersion, error) {
	args := m.Called(ctx, fileID)
	var file *entity.File
	var versions []*entity.FileVersion
	if args.Get(0) != nil {
		file = args.Get(0).(*entity.File)
	}
	if args.Get(1) != nil {
		versions = args.Get(1).([]*entity.FileVersion)
	}
	return file, versions, args.Error(2)
}

func (m *MockVersionLedger) ListFiles(ctx context.Context) ([]*entity.FileSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FileSummary), args.Error(1)
}

func (m *MockVersionLedger) VerifyFile(ctx context.Context, fileID uuid.UUID) ([]service.VersionIntegrity, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.VersionIntegrity), args.Error(1)
}
