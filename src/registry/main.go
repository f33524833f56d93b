// Package registry answers whether a building camera exists. It is the
// only source of "not found" for buildings and cameras.
package registry

import (
	"context"
	"errors"
	"regexp"

	"github.com/kerberos-io/media/src/models"
)

var ErrNotFound = errors.New("registry: camera not found")

// Registry is the existence store behind the resolver.
type Registry interface {
	Exists(ctx context.Context, buildingId string, cameraId string) (bool, error)
}

// Ids are opaque, but always string shaped and bounded.
var idShape = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

type Resolver struct {
	registry Registry
}

func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve maps a (buildingId, cameraId) pair onto a camera. An unknown,
// empty or malformed id is ErrNotFound, the caller cannot tell them apart.
func (r *Resolver) Resolve(ctx context.Context, buildingId string, cameraId string) (models.CameraRef, error) {
	if !idShape.MatchString(buildingId) || !idShape.MatchString(cameraId) {
		return models.CameraRef{}, ErrNotFound
	}
	exists, err := r.registry.Exists(ctx, buildingId, cameraId)
	if err != nil {
		return models.CameraRef{}, err
	}
	if !exists {
		return models.CameraRef{}, ErrNotFound
	}
	return models.CameraRef{BuildingId: buildingId, CameraId: cameraId}, nil
}
