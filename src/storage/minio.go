package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kerberos-io/media/src/models"
	"github.com/minio/minio-go/v6"
)

// MinioStore writes to an S3 compatible bucket (MinIO, Kerberos Vault
// backends, AWS) and returns presigned urls.
type MinioStore struct {
	client       *minio.Client
	bucket       string
	presignedTTL time.Duration
}

func NewMinioStore(config *models.S3) (*MinioStore, error) {
	if config == nil || config.Bucket == "" {
		return nil, errors.New("storage: minio bucket is required")
	}
	if config.AccessKey == "" || config.SecretKey == "" {
		return nil, errors.New("storage: minio credentials are required")
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	secure := config.Secure != "false"

	var client *minio.Client
	var err error
	if config.Region != "" {
		client, err = minio.NewWithRegion(endpoint, config.AccessKey, config.SecretKey, secure, config.Region)
	} else {
		client, err = minio.New(endpoint, config.AccessKey, config.SecretKey, secure)
	}
	if err != nil {
		return nil, err
	}

	if config.ProxyURI != "" {
		var transport http.RoundTripper = &http.Transport{
			Proxy: func(*http.Request) (*url.URL, error) {
				return url.Parse(config.ProxyURI)
			},
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		client.SetCustomTransport(transport)
	}

	return &MinioStore{
		client:       client,
		bucket:       config.Bucket,
		presignedTTL: presignedTTL(config),
	}, nil
}

func (m *MinioStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	_, err := m.client.PutObjectWithContext(ctx, m.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *MinioStore) URL(ctx context.Context, key string) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	presigned, err := m.client.PresignedGetObject(m.bucket, key, m.presignedTTL, url.Values{})
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}

func presignedTTL(config *models.S3) time.Duration {
	if config.PresignedTTL <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(config.PresignedTTL) * time.Second
}
