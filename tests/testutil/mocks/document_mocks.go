package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

// MockTextExtractor is a mock of service.TextExtractor
type MockTextExtractor struct {
	mock.Mock
}

func NewMockTextExtractor(t *testing.T) *MockTextExtractor {
	m := &MockTextExtractor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTextExtractor) Extract(ctx context.Context, raw []byte, filename string) (string, error) {
	args := m.Called(ctx, raw, filename)
	return args.String(0), args.Error(1)
}

// MockLatestVersionCache is a mock of service.LatestVersionCache
type MockLatestVersionCache struct {
	mock.Mock
}

func NewMockLatestVersionCache(t *testing.T) *MockLatestVersionCache {
	m := &MockLatestVersionCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLatestVersionCache) Get(ctx context.Context, fileID uuid.UUID) (*entity.File, *entity.FileVersion, bool) {
	args := m.Called(ctx, fileID)
	var file *entity.File
	var version *entity.FileVersion
	if args.Get(0) != nil {
		file = args.Get(0).(*entity.File)
	}
	if args.Get(1) != nil {
		version = args.Get(1).(*entity.FileVersion)
	}
	return file, version, args.Bool(2)
}

func (m *MockLatestVersionCache) Generation(ctx context.Context, fileID uuid.UUID) (int64, bool) {
	args := m.Called(ctx, fileID)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockLatestVersionCache) Set(ctx context.Context, file *entity.File, version *entity.FileVersion, generation int64) {
	m.Called(ctx, file, version, generation)
}

func (m *MockLatestVersionCache) Invalidate(ctx context.Context, fileID uuid.UUID) {
	m.Called(ctx, fileID)
}

// MockChangeSummarizer is a mock of service.ChangeSummarizer
type MockChangeSummarizer struct {
	mock.Mock
}

func NewMockChangeSummarizer(t *testing.T) *MockChangeSummarizer {
	m := &MockChangeSummarizer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChangeSummarizer) Summarize(ctx context.Context, lines []valueobject.DiffLine, unified string) string {
	args := m.Called(ctx, lines, unified)
	return args.String(0)
}
