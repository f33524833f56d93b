// Package storage writes artifacts to a blob store and hands out urls to
// read them back. Keys are built with Key and look like
// recordings/<buildingId>/<cameraId>/2024-01-01--10-00-00.mp4.
package storage

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/kerberos-io/media/src/models"
)

var ErrInvalidKey = errors.New("storage: invalid key")

// Store is implemented by the filesystem, MinIO and S3 backends.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	URL(ctx context.Context, key string) (string, error)
}

// Key is the blob key of an artifact.
func Key(kind models.MediaType, camera models.CameraRef, filename string) string {
	return path.Join(string(kind), camera.BuildingId, camera.CameraId, filename)
}

func validKey(key string) bool {
	return key != "" && path.Clean("/"+key) == "/"+key
}
