package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

const textContentType = "text/plain; charset=utf-8"

// MinIOContentStore はMinIOのバケットにバージョン本文を保存します
type MinIOContentStore struct {
	client     *minio.Client
	bucketName string
}

// NewMinIOContentStore はMinIOに接続し、バケットがなければ作成します
func NewMinIOContentStore(ctx context.Context, cfg config.StorageConfig) (*MinIOContentStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &MinIOContentStore{client: client, bucketName: cfg.BucketName}
	if err := s.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinIOContentStore) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", s.bucketName, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", s.bucketName, err)
	}
	return nil
}

// Health はバケットへの到達性を確認します
func (s *MinIOContentStore) Health(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucketName)
	return err
}

// Put はオブジェクトをアップロードします（応答時点で永続化済み）
func (s *MinIOContentStore) Put(ctx context.Context, key valueobject.StorageKey, content []byte) (string, error) {
	location := key.String()
	_, err := s.client.PutObject(ctx, s.bucketName, location, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: textContentType,
	})
	if err != nil {
		return "", apperror.NewStorageWriteError(location, err)
	}
	return location, nil
}

// Get はオブジェクトを読み込みます
func (s *MinIOContentStore) Get(ctx context.Context, location string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, location, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.readError(location, err)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		return nil, s.readError(location, err)
	}
	return content, nil
}

func (s *MinIOContentStore) readError(location string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return apperror.NewStorageNotFoundError(location)
	}
	return fmt.Errorf("failed to get object: %w", err)
}

// Delete はオブジェクトを削除します（存在しなくてもエラーにならない）
func (s *MinIOContentStore) Delete(ctx context.Context, location string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, location, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeleteAll はネームスペース配下のオブジェクトを一括削除します
func (s *MinIOContentStore) DeleteAll(ctx context.Context, namespace string) error {
	objectsCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    namespace + "/",
		Recursive: true,
	})

	// 一覧取得のエラーを削除対象から分離する
	toRemove := make(chan minio.ObjectInfo)
	listErr := make(chan error, 1)
	go func() {
		defer close(toRemove)
		for obj := range objectsCh {
			if obj.Err != nil {
				listErr <- obj.Err
				return
			}
			toRemove <- obj
		}
	}()

	var errs []error
	for e := range s.client.RemoveObjects(ctx, s.bucketName, toRemove, minio.RemoveObjectsOptions{}) {
		if e.Err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", e.ObjectName, e.Err))
		}
	}

	select {
	case err := <-listErr:
		return fmt.Errorf("failed to list objects: %w", err)
	default:
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to delete some objects: %v", errs)
	}
	return nil
}

// ListNamespaces はバケット内のネームスペースを列挙します
func (s *MinIOContentStore) ListNamespaces(ctx context.Context) ([]service.StoredNamespace, error) {
	latest := map[string]service.StoredNamespace{}
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		collectNamespace(latest, obj.Key, obj.LastModified)
	}
	return sortedNamespaces(latest), nil
}

