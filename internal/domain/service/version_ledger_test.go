package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/repository/sqlite"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/storage"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
	"github.com/Vladislavlhp7/data-lineage/tests/testutil"
)

const storeRoot = "/versions"

type ledgerFixture struct {
	ledger service.VersionLedger
	fs     afero.Fs
}

// newLedgerFixture は実SQLiteとafero上のストアでLedgerを組み立てます
func newLedgerFixture(t *testing.T, fs afero.Fs, wrap func(service.ContentStore) service.ContentStore) *ledgerFixture {
	t.Helper()
	_, txManager := testutil.NewSQLiteTestDB(t)

	var store service.ContentStore = storage.NewLocalContentStore(fs, storeRoot)
	if wrap != nil {
		store = wrap(store)
	}

	ledger := service.NewVersionLedger(
		sqlite.NewFileRepository(txManager),
		sqlite.NewFileVersionRepository(txManager),
		txManager,
		store,
		service.NewDiffEngine(),
		service.NewLocalChangeSummarizer(),
	)
	return &ledgerFixture{ledger: ledger, fs: fs}
}

func fileName(t *testing.T, name string) valueobject.FileName {
	t.Helper()
	fn, err := valueobject.NewFileName(name)
	require.NoError(t, err)
	return fn
}

func (f *ledgerFixture) namespaceExists(t *testing.T, fileID uuid.UUID) bool {
	t.Helper()
	exists, err := afero.DirExists(f.fs, filepath.Join(storeRoot, fileID.String()))
	require.NoError(t, err)
	return exists
}

func TestVersionLedger_Scenarios(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, afero.NewMemMapFs(), nil)

	// A: 新規アップロード
	file, v1, err := f.ledger.CreateFile(ctx, fileName(t, "report.txt"), "line1\nline2")
	require.NoError(t, err)
	assert.Equal(t, 1, file.LatestVersion)
	assert.Equal(t, 1, v1.VersionNumber)
	assert.Nil(t, v1.ChangeSummary)

	// B: 1行追加
	v2, err := f.ledger.AddVersion(ctx, file.ID, "line1\nline2\nline3")
	require.NoError(t, err)
	assert.Equal(t, 2, v2.VersionNumber)
	require.NotNil(t, v2.ChangeSummary)
	assert.Equal(t, "Added 1 line", *v2.ChangeSummary)

	// C: 同一内容でも新バージョン
	v3, err := f.ledger.AddVersion(ctx, file.ID, "line1\nline2\nline3")
	require.NoError(t, err)
	assert.Equal(t, 3, v3.VersionNumber)
	assert.Equal(t, service.NoChangesSummary, *v3.ChangeSummary)

	gotFile, latest, err := f.ledger.GetLatest(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, gotFile.LatestVersion)
	assert.Equal(t, v3.ID, latest.ID)

	// E: 存在しないバージョン
	_, err = f.ledger.GetVersion(ctx, file.ID, 99)
	assert.True(t, apperror.Is(err, apperror.CodeVersionNotFound))

	// D: 削除
	require.True(t, f.namespaceExists(t, file.ID))
	require.NoError(t, f.ledger.DeleteFile(ctx, file.ID))

	_, _, err = f.ledger.GetLatest(ctx, file.ID)
	assert.True(t, apperror.Is(err, apperror.CodeFileNotFound))
	assert.False(t, f.namespaceExists(t, file.ID))
}

func TestVersionLedger_GetVersion_OnTwoVersionFile(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, afero.NewMemMapFs(), nil)

	file, _, err := f.ledger.CreateFile(ctx, fileName(t, "two.txt"), "a")
	require.NoError(t, err)
	_, err = f.ledger.AddVersion(ctx, file.ID, "b")
	require.NoError(t, err)

	v1, err := f.ledger.GetVersion(ctx, file.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", v1.Content)

	_, err = f.ledger.GetVersion(ctx, file.ID, 99)
	assert.True(t, apperror.Is(err, apperror.CodeVersionNotFound))

	_, err = f.ledger.GetVersion(ctx, uuid.New(), 1)
	assert.True(t, apperror.Is(err, apperror.CodeFileNotFound))
}

func TestVersionLedger_CreateFile_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, afero.NewMemMapFs(), nil)

	_, _, err := f.ledger.CreateFile(ctx, fileName(t, "dup.txt"), "x")
	require.NoError(t, err)

	_, _, err = f.ledger.CreateFile(ctx, fileName(t, "dup.txt"), "y")
	assert.True(t, apperror.Is(err, apperror.CodeDuplicateFile))

	files, err := f.ledger.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestVersionLedger_AddVersion_UnknownFile(t *testing.T) {
	f := newLedgerFixture(t, afero.NewMemMapFs(), nil)

	_, err := f.ledger.AddVersion(context.Background(), uuid.New(), "x")

	assert.True(t, apperror.Is(err, apperror.CodeFileNotFound))
}

func TestVersionLedger_DeleteFile_Unknown(t *testing.T) {
	f := newLedgerFixture(t, afero.NewMemMapFs(), nil)

	err := f.ledger.DeleteFile(context.Background(), uuid.New())

	assert.True(t, apperror.Is(err, apperror.CodeFileNotFound))
}

func TestVersionLedger_ConcurrentAddVersion_ConsecutiveNumbers(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, afero.NewMemMapFs(), nil)
	const writers = 24

	file, _, err := f.ledger.CreateFile(ctx, fileName(t, "busy.txt"), "seed")
	require.NoError(t, err)

	numbers := make([]int, writers)
	var g errgroup.Group
	for i := range writers {
		g.Go(func() error {
			v, err := f.ledger.AddVersion(ctx, file.ID, "writer "+uuid.NewString())
			if err != nil {
				return err
			}
			numbers[i] = v.VersionNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Ints(numbers)
	for i, n := range numbers {
		assert.Equal(t, i+2, n)
	}

	gotFile, versions, err := f.ledger.ListVersions(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, writers+1, gotFile.LatestVersion)
	require.Len(t, versions, writers+1)
	for i, v := range versions {
		assert.Equal(t, i+1, v.VersionNumber)
	}
}

func TestVersionLedger_CreateFile_StorageFailure_NoRecord(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, afero.NewReadOnlyFs(afero.NewMemMapFs()), nil)

	_, _, err := f.ledger.CreateFile(ctx, fileName(t, "nowhere.txt"), "x")
	assert.True(t, apperror.Is(err, apperror.CodeStorageWrite))

	files, err := f.ledger.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = f.ledger.FindByName(ctx, fileName(t, "nowhere.txt"))
	assert.True(t, apperror.Is(err, apperror.CodeFileNotFound))
}

// failingDeleteStore はDeleteAllだけを失敗させます
type failingDeleteStore struct {
	service.ContentStore
}

func (s failingDeleteStore) DeleteAll(context.Context, string) error {
	return apperror.NewStorageWriteError("namespace", errors.New("permission denied"))
}

func TestVersionLedger_DeleteFile_StorageFailure_KeepsRecords(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, afero.NewMemMapFs(), func(s service.ContentStore) service.ContentStore {
		return failingDeleteStore{ContentStore: s}
	})

	file, _, err := f.ledger.CreateFile(ctx, fileName(t, "sticky.txt"), "x")
	require.NoError(t, err)

	err = f.ledger.DeleteFile(ctx, file.ID)
	assert.True(t, apperror.Is(err, apperror.CodeStorageWrite))

	_, latest, err := f.ledger.GetLatest(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", latest.Content)
}

func TestVersionLedger_ListFiles_OrderedWithLatest(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, afero.NewMemMapFs(), nil)

	empty, err := f.ledger.ListFiles(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	b, _, err := f.ledger.CreateFile(ctx, fileName(t, "b.txt"), "b1")
	require.NoError(t, err)
	_, _, err = f.ledger.CreateFile(ctx, fileName(t, "a.txt"), "a1")
	require.NoError(t, err)
	_, err = f.ledger.AddVersion(ctx, b.ID, "b2")
	require.NoError(t, err)

	files, err := f.ledger.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].File.Name.Value())
	assert.Equal(t, 1, files[0].Latest.VersionNumber)
	assert.Equal(t, "b.txt", files[1].File.Name.Value())
	assert.Equal(t, 2, files[1].Latest.VersionNumber)
	assert.Equal(t, "b2", files[1].Latest.Content)
}

func TestVersionLedger_VerifyFile(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	f := newLedgerFixture(t, fs, nil)

	file, _, err := f.ledger.CreateFile(ctx, fileName(t, "check.txt"), "one")
	require.NoError(t, err)
	v2, err := f.ledger.AddVersion(ctx, file.ID, "two")
	require.NoError(t, err)

	results, err := f.ledger.VerifyFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Intact)
	assert.True(t, results[1].Intact)

	// 保存済み本文を改ざん
	require.NoError(t, afero.WriteFile(fs, filepath.Join(storeRoot, v2.StorageLocation), []byte("tampered"), 0o644))
	require.NoError(t, fs.Remove(filepath.Join(storeRoot, file.ID.String(), "v1.txt")))

	results, err = f.ledger.VerifyFile(ctx, file.ID)
	require.NoError(t, err)
	assert.False(t, results[0].Intact)
	assert.True(t, apperror.Is(results[0].Err, apperror.CodeStorageNotFound))
	assert.False(t, results[1].Intact)
	assert.NoError(t, results[1].Err)
}

func TestVersionLedger_ContentIsImmutableSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, afero.NewMemMapFs(), nil)

	file, v1, err := f.ledger.CreateFile(ctx, fileName(t, "snap.txt"), "original")
	require.NoError(t, err)
	_, err = f.ledger.AddVersion(ctx, file.ID, "rewritten")
	require.NoError(t, err)

	again, err := f.ledger.GetVersion(ctx, file.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Content)
	assert.Equal(t, v1.Checksum, again.Checksum)
	assert.Equal(t, entity.Checksum("original"), again.Checksum)
}
