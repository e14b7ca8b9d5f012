// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/config"
)

// S3Store wraps MinIO/S3 interactions for the image bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
	base   string
	logger *zap.Logger
}

// NewS3Store creates a MinIO client from the object store config.
func NewS3Store(cfg config.ObjectStoreConfig, logger *zap.Logger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		base:   publicBase(cfg),
		logger: logger,
	}, nil
}

func publicBase(cfg config.ObjectStoreConfig) string {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: cfg.Endpoint, Path: "/" + cfg.Bucket}
	return u.String()
}

// EnsureBucket creates the image bucket when it does not exist.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Created image bucket", zap.String("bucket", s.bucket))
	return nil
}

// Put uploads the image and returns its bucket URL.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return s.URL(key), nil
}

// Get downloads an image.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("stat object: %w", err)
	}
	buf, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", fmt.Errorf("read object: %w", err)
	}
	return buf, info.ContentType, nil
}

// URL returns the path-style public URL of key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	return s.base + "/" + key
}
