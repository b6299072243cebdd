package storage

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// LocalContentStore はファイルシステム上にバージョン本文を保存します
// 配置: {root}/{file_id}/v{n}.txt
type LocalContentStore struct {
	fs   afero.Fs
	root string
}

// NewLocalContentStore は新しいLocalContentStoreを作成します
func NewLocalContentStore(fsys afero.Fs, root string) *LocalContentStore {
	return &LocalContentStore{fs: fsys, root: root}
}

// NewOSContentStore はOSのファイルシステムを使うLocalContentStoreを作成します
func NewOSContentStore(root string) *LocalContentStore {
	return NewLocalContentStore(afero.NewOsFs(), root)
}

// Put は一時ファイルに書き込み、fsync後にリネームして確定させます
// リネーム後にディレクトリもfsyncし、エントリを永続化してから返す
func (s *LocalContentStore) Put(_ context.Context, key valueobject.StorageKey, content []byte) (string, error) {
	location := key.String()
	dir := filepath.Join(s.root, key.Namespace())

	_, statErr := s.fs.Stat(dir)
	newNamespace := errors.Is(statErr, fs.ErrNotExist)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", apperror.NewStorageWriteError(location, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+key.ObjectName()+".*.tmp")
	if err != nil {
		return "", apperror.NewStorageWriteError(location, err)
	}
	tmpName := tmp.Name()

	if err := writeAndSync(tmp, content); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", apperror.NewStorageWriteError(location, err)
	}

	if err := s.fs.Rename(tmpName, filepath.Join(s.root, location)); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", apperror.NewStorageWriteError(location, err)
	}

	if err := s.syncDir(dir); err != nil {
		return "", apperror.NewStorageWriteError(location, err)
	}
	if newNamespace {
		if err := s.syncDir(s.root); err != nil {
			return "", apperror.NewStorageWriteError(location, err)
		}
	}

	return location, nil
}

func (s *LocalContentStore) syncDir(dir string) error {
	d, err := s.fs.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return err
	}
	return d.Close()
}

func writeAndSync(f afero.File, content []byte) error {
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Get は保存先から本文を読み込みます
func (s *LocalContentStore) Get(_ context.Context, location string) ([]byte, error) {
	key, err := valueobject.ParseStorageKey(location)
	if err != nil {
		return nil, apperror.NewStorageNotFoundError(location)
	}

	content, err := afero.ReadFile(s.fs, filepath.Join(s.root, key.String()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NewStorageNotFoundError(location)
		}
		return nil, err
	}
	return content, nil
}

// Delete は単一バージョンを削除します
func (s *LocalContentStore) Delete(_ context.Context, location string) error {
	key, err := valueobject.ParseStorageKey(location)
	if err != nil {
		return nil
	}

	err = s.fs.Remove(filepath.Join(s.root, key.String()))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// DeleteAll はファイルのネームスペースを丸ごと削除します
func (s *LocalContentStore) DeleteAll(_ context.Context, namespace string) error {
	if _, err := uuid.Parse(namespace); err != nil {
		return apperror.NewInvalidRequestError("invalid storage namespace: " + namespace)
	}
	return s.fs.RemoveAll(filepath.Join(s.root, namespace))
}

// ListNamespaces はルート直下のネームスペースを列挙します
func (s *LocalContentStore) ListNamespaces(_ context.Context) ([]service.StoredNamespace, error) {
	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []service.StoredNamespace{}, nil
		}
		return nil, err
	}

	namespaces := make([]service.StoredNamespace, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}

		ns := service.StoredNamespace{Name: entry.Name(), ModifiedAt: entry.ModTime()}
		objects, err := afero.ReadDir(s.fs, filepath.Join(s.root, entry.Name()))
		if err != nil {
			return nil, err
		}
		for _, obj := range objects {
			if obj.ModTime().After(ns.ModifiedAt) {
				ns.ModifiedAt = obj.ModTime()
			}
		}
		namespaces = append(namespaces, ns)
	}

	sort.Slice(namespaces, func(i, j int) bool { return namespaces[i].Name < namespaces[j].Name })
	return namespaces, nil
}
