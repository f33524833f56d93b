// Package catalog indexes stored artifacts per camera by timestamp, so
// an exact lookup and a "latest at or before" lookup stay bounded without
// listing the blob store.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/kerberos-io/media/src/models"
)

var ErrNotFound = errors.New("catalog: artifact not found")

// Catalog is implemented by the Badger (local) and Redis (shared) indexes.
// Recording an artifact at an existing timestamp replaces the entry.
type Catalog interface {
	Record(ctx context.Context, artifact models.Artifact) error
	Lookup(ctx context.Context, kind models.MediaType, camera models.CameraRef, at time.Time) (models.Artifact, error)
	Nearest(ctx context.Context, kind models.MediaType, camera models.CameraRef, at time.Time) (models.Artifact, error)
	Close() error
}

// Entries are ordered by their UTC second, fixed width so the lexical order
// of the keys is the chronological order.
const stampLayout = "20060102150405"

func stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}
