package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/usecase/document/query"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
	"github.com/Vladislavlhp7/data-lineage/tests/testutil/mocks"
)

func TestListDocumentsQuery_Execute_ReturnsSummaries(t *testing.T) {
	ctx := context.Background()
	ledger := mocks.NewMockVersionLedger(t)
	file, versions := newFileWithVersions(t, "a.txt", "one", "two")
	summaries := []*entity.FileSummary{{File: file, Latest: versions[1]}}

	ledger.On("ListFiles", ctx).Return(summaries, nil)

	output, err := query.NewListDocumentsQuery(ledger).Execute(ctx)

	require.NoError(t, err)
	require.Len(t, output.Documents, 1)
	assert.Equal(t, 2, output.Documents[0].Latest.VersionNumber)
}

func TestListDocumentsQuery_Execute_Error(t *testing.T) {
	ctx := context.Background()
	ledger := mocks.NewMockVersionLedger(t)

	ledger.On("ListFiles", ctx).Return(nil, errors.New("db down"))

	_, err := query.NewListDocumentsQuery(ledger).Execute(ctx)

	assert.EqualError(t, err, "db down")
}

func TestListDocumentVersionsQuery_Execute_ReturnsAscending(t *testing.T) {
	ctx := context.Background()
	ledger := mocks.NewMockVersionLedger(t)
	file, versions := newFileWithVersions(t, "a.txt", "one", "two", "three")

	ledger.On("ListVersions", ctx, file.ID).Return(file, versions, nil)

	output, err := query.NewListDocumentVersionsQuery(ledger).Execute(ctx, query.ListDocumentVersionsInput{FileID: file.ID})

	require.NoError(t, err)
	require.Len(t, output.Versions, 3)
	for i, v := range output.Versions {
		assert.Equal(t, i+1, v.VersionNumber)
	}
	assert.Equal(t, 3, output.File.LatestVersion)
}

func TestListDocumentVersionsQuery_Execute_UnknownFile(t *testing.T) {
	ctx := context.Background()
	ledger := mocks.NewMockVersionLedger(t)
	fileID := uuid.New()

	ledger.On("ListVersions", ctx, fileID).Return(nil, nil, apperror.NewFileNotFoundError(fileID))

	_, err := query.NewListDocumentVersionsQuery(ledger).Execute(ctx, query.ListDocumentVersionsInput{FileID: fileID})

	assert.True(t, apperror.Is(err, apperror.CodeFileNotFound))
}
