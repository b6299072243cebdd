package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidStorageKey = errors.New("invalid storage key")
)

// StorageKey はバージョン本文の保存先を表す値オブジェクト
// 形式: {file_id}/v{version}.txt
// ファイルIDとバージョン番号のみから決まり、内容には依存しない
type StorageKey struct {
	fileID  uuid.UUID
	version int
}

// NewStorageKey はファイルIDとバージョン番号からStorageKeyを生成します
func NewStorageKey(fileID uuid.UUID, version int) (StorageKey, error) {
	if fileID == uuid.Nil {
		return StorageKey{}, fmt.Errorf("%w: nil file id", ErrInvalidStorageKey)
	}
	if version < 1 {
		return StorageKey{}, fmt.Errorf("%w: version must be positive", ErrInvalidStorageKey)
	}
	return StorageKey{fileID: fileID, version: version}, nil
}

// ParseStorageKey はキー文字列をパースします
func ParseStorageKey(key string) (StorageKey, error) {
	namespace, object, ok := strings.Cut(key, "/")
	if !ok {
		return StorageKey{}, fmt.Errorf("%w: %s", ErrInvalidStorageKey, key)
	}

	fileID, err := uuid.Parse(namespace)
	if err != nil {
		return StorageKey{}, fmt.Errorf("%w: %v", ErrInvalidStorageKey, err)
	}

	var version int
	if _, err := fmt.Sscanf(object, "v%d.txt", &version); err != nil {
		return StorageKey{}, fmt.Errorf("%w: %v", ErrInvalidStorageKey, err)
	}

	return NewStorageKey(fileID, version)
}

// FileID はファイルIDを返します
func (k StorageKey) FileID() uuid.UUID {
	return k.fileID
}

// Version はバージョン番号を返します
func (k StorageKey) Version() int {
	return k.version
}

// Namespace はファイル単位のディレクトリ（プレフィックス）を返します
func (k StorageKey) Namespace() string {
	return NamespaceOf(k.fileID)
}

// ObjectName はネームスペース内のオブジェクト名を返します
func (k StorageKey) ObjectName() string {
	return fmt.Sprintf("v%d.txt", k.version)
}

// String はキー文字列を返します
func (k StorageKey) String() string {
	return k.Namespace() + "/" + k.ObjectName()
}

// NamespaceOf はファイルIDからネームスペースを返します
func NamespaceOf(fileID uuid.UUID) string {
	return fileID.String()
}
