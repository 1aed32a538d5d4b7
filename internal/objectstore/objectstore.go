package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"offerlens/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store wraps the minio client for contract document blobs.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore creates the object store client from app config and ensures the
// configured bucket exists.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	osCfg := cfg.ObjectStore
	if osCfg.Endpoint == "" {
		return nil, errors.New("object store endpoint must be configured")
	}
	if osCfg.Bucket == "" {
		return nil, errors.New("object store bucket must be configured")
	}

	client, err := minio.New(osCfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(osCfg.AccessKey, osCfg.SecretKey, ""),
		Secure: osCfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	s := &Store{client: client, bucket: osCfg.Bucket}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put uploads document bytes under the given key.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	if s == nil || s.client == nil {
		return errors.New("object store not initialized")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Fetch returns the raw bytes stored under the given key.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("object store not initialized")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the object stored under the given key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return errors.New("object store not initialized")
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
