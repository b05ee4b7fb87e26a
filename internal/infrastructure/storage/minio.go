package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
)

// AudioStore keeps uploaded riff audio in a MinIO bucket.
type AudioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewAudioStore(ctx context.Context, cfg config.MinIOConfig) (*AudioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("created storage bucket")
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &AudioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an object and returns its public URL.
func (s *AudioStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", key, err)
	}
	return s.URL(key), nil
}

// URL builds the public URL for a stored object.
func (s *AudioStore) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}

func (s *AudioStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every object under prefix.
func (s *AudioStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	objectCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for rmErr := range s.client.RemoveObjects(ctx, s.bucket, objectCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			return fmt.Errorf("delete prefix %q (object %q): %w", prefix, rmErr.ObjectName, rmErr.Err)
		}
	}
	return nil
}

// ListKeys returns the keys of all stored objects together with their
// age, for the orphan sweep.
func (s *AudioStore) ListKeys(ctx context.Context, prefix string) (map[string]time.Time, error) {
	keys := make(map[string]time.Time)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects %q: %w", prefix, obj.Err)
		}
		keys[obj.Key] = obj.LastModified
	}
	return keys, nil
}

func (s *AudioStore) HealthCheck(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
