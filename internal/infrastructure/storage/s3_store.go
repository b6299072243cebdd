package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

// s3DeleteBatchSize はDeleteObjectsの1リクエストあたりの上限
const s3DeleteBatchSize = 1000

// S3ContentStore はS3互換ストレージにバージョン本文を保存します
type S3ContentStore struct {
	client *s3.Client
	bucket string
}

// NewS3ContentStore は新しいS3ContentStoreを作成します
// Endpoint を指定した場合はパススタイルでS3互換サービスに接続する
func NewS3ContentStore(ctx context.Context, cfg config.StorageConfig) (*S3ContentStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ContentStore{client: client, bucket: cfg.BucketName}, nil
}

// EnsureBucket はバケットが存在しない場合は作成します
func (s *S3ContentStore) EnsureBucket(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err == nil {
		return nil
	}

	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

// Health はバケットへの到達性を確認します
func (s *S3ContentStore) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// Put はオブジェクトをアップロードします
func (s *S3ContentStore) Put(ctx context.Context, key valueobject.StorageKey, content []byte) (string, error) {
	location := key.String()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(location),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(textContentType),
	})
	if err != nil {
		return "", apperror.NewStorageWriteError(location, err)
	}
	return location, nil
}

// Get はオブジェクトを読み込みます
func (s *S3ContentStore) Get(ctx context.Context, location string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, apperror.NewStorageNotFoundError(location)
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Delete はオブジェクトを削除します
func (s *S3ContentStore) Delete(ctx context.Context, location string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(location),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeleteAll はネームスペース配下のオブジェクトをページ単位で一括削除します
func (s *S3ContentStore) DeleteAll(ctx context.Context, namespace string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(namespace + "/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects: %w", err)
		}

		ids := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
		}
		for start := 0; start < len(ids); start += s3DeleteBatchSize {
			end := min(start+s3DeleteBatchSize, len(ids))
			out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(s.bucket),
				Delete: &types.Delete{Objects: ids[start:end], Quiet: aws.Bool(true)},
			})
			if err != nil {
				return fmt.Errorf("failed to delete objects: %w", err)
			}
			if len(out.Errors) > 0 {
				first := out.Errors[0]
				return fmt.Errorf("failed to delete %d objects, first %s: %s",
					len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
			}
		}
	}
	return nil
}

// ListNamespaces はバケット内のネームスペースを列挙します
func (s *S3ContentStore) ListNamespaces(ctx context.Context) ([]service.StoredNamespace, error) {
	latest := map[string]service.StoredNamespace{}
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			collectNamespace(latest, aws.ToString(obj.Key), aws.ToTime(obj.LastModified))
		}
	}
	return sortedNamespaces(latest), nil
}

// isS3NotFound はオブジェクト不在エラーかどうかを判定します
func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
