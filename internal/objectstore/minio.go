package objectstore

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/config"
)

// Minio implements Store against a MinIO (or any S3-compatible) server.
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio creates the client and ensures the configured bucket exists.
func NewMinio(ctx context.Context, cfg config.Minio) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "create object store client", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "check bucket", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, apperrors.Wrap(apperrors.KindStorage, "create bucket", err)
		}
	}

	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

func (m *Minio) Put(ctx context.Context, key string, data io.Reader, size int64, contentType string, metadata map[string]string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, data, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "put object "+key, err)
	}
	return nil
}

func (m *Minio) Get(ctx context.Context, key string) ([]byte, string, error) {
	info, err := m.Stat(ctx, key)
	if err != nil {
		return nil, "", err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindStorage, "get object "+key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindStorage, "read object "+key, err)
	}
	return data, info.ContentType, nil
}

func (m *Minio) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	stat, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return ObjectInfo{}, apperrors.Newf(apperrors.KindNotFound, "object %s not found", key)
		}
		return ObjectInfo{}, apperrors.Wrap(apperrors.KindStorage, "stat object "+key, err)
	}
	return ObjectInfo{
		Key:          stat.Key,
		Size:         stat.Size,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
		ContentType:  stat.ContentType,
		Metadata:     map[string]string(stat.UserMetadata),
	}, nil
}

func (m *Minio) List(ctx context.Context, prefix string, recursive bool) ([]ObjectInfo, error) {
	objectCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: recursive,
	})

	var objects []ObjectInfo
	for object := range objectCh {
		if object.Err != nil {
			return nil, apperrors.Wrap(apperrors.KindStorage, "list objects under "+prefix, object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			ETag:         object.ETag,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
			IsDir:        strings.HasSuffix(object.Key, "/"),
		})
	}
	return objects, nil
}

func (m *Minio) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "delete object "+key, err)
	}
	return nil
}

// Ping verifies the object store is reachable.
func (m *Minio) Ping(ctx context.Context) error {
	if _, err := m.client.BucketExists(ctx, m.bucket); err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "ping object store", err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound"
}
