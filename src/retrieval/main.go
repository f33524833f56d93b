// Package retrieval serves stored artifacts back to client applications,
// by exact timestamp or as the latest artifact at or before a moment.
package retrieval

import (
	"context"
	"errors"
	"time"

	"github.com/kerberos-io/media/src/auth"
	"github.com/kerberos-io/media/src/catalog"
	"github.com/kerberos-io/media/src/models"
	"github.com/kerberos-io/media/src/registry"
	"github.com/kerberos-io/media/src/storage"
	"github.com/kerberos-io/media/src/timestamp"
)

var (
	ErrNotFound        = errors.New("retrieval: file not found")
	ErrMissingArgument = errors.New("retrieval: argument is required")
)

// ArgumentError ties a validation failure to the request argument that
// caused it, "filename" or "query".
type ArgumentError struct {
	Name string
	Err  error
}

func (e *ArgumentError) Error() string {
	return "retrieval: '" + e.Name + "' " + e.Err.Error()
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

type Service struct {
	Authority *auth.Authority
	Resolver  *registry.Resolver
	Codec     *timestamp.Codec
	Catalog   catalog.Catalog
	Store     storage.Store
}

// GetByTimestamp returns the artifact stored under exactly filename.
func (s *Service) GetByTimestamp(ctx context.Context, token string, kind models.MediaType, buildingId string, cameraId string, filename string) (models.ArtifactRef, error) {
	camera, err := s.camera(ctx, token, buildingId, cameraId)
	if err != nil {
		return models.ArtifactRef{}, err
	}
	at, err := s.argument("filename", filename)
	if err != nil {
		return models.ArtifactRef{}, err
	}
	artifact, err := s.Catalog.Lookup(ctx, kind, camera, at)
	return s.reference(ctx, artifact, err)
}

// GetNearestAtOrBefore returns the most recent artifact whose timestamp is
// lower than or equal to the query.
func (s *Service) GetNearestAtOrBefore(ctx context.Context, token string, kind models.MediaType, buildingId string, cameraId string, query string) (models.ArtifactRef, error) {
	camera, err := s.camera(ctx, token, buildingId, cameraId)
	if err != nil {
		return models.ArtifactRef{}, err
	}
	at, err := s.argument("query", query)
	if err != nil {
		return models.ArtifactRef{}, err
	}
	artifact, err := s.Catalog.Nearest(ctx, kind, camera, at)
	return s.reference(ctx, artifact, err)
}

// GetLatest returns the most recent artifact of a camera.
func (s *Service) GetLatest(ctx context.Context, token string, kind models.MediaType, buildingId string, cameraId string) (models.ArtifactRef, error) {
	camera, err := s.camera(ctx, token, buildingId, cameraId)
	if err != nil {
		return models.ArtifactRef{}, err
	}
	artifact, err := s.Catalog.Nearest(ctx, kind, camera, s.Codec.Now())
	return s.reference(ctx, artifact, err)
}

// camera runs the checks every read shares, in order: the token, its
// trust class and then the existence of the camera.
func (s *Service) camera(ctx context.Context, token string, buildingId string, cameraId string) (models.CameraRef, error) {
	verified, err := s.Authority.Verify(token)
	if err != nil {
		return models.CameraRef{}, err
	}
	if err := auth.Authorize(verified, auth.ReadAccess); err != nil {
		return models.CameraRef{}, err
	}
	return s.Resolver.Resolve(ctx, buildingId, cameraId)
}

func (s *Service) argument(name string, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &ArgumentError{Name: name, Err: ErrMissingArgument}
	}
	at, err := s.Codec.ParsePast(value)
	if err != nil {
		return time.Time{}, &ArgumentError{Name: name, Err: err}
	}
	return at, nil
}

func (s *Service) reference(ctx context.Context, artifact models.Artifact, err error) (models.ArtifactRef, error) {
	if errors.Is(err, catalog.ErrNotFound) {
		return models.ArtifactRef{}, ErrNotFound
	}
	if err != nil {
		return models.ArtifactRef{}, err
	}
	url, err := s.Store.URL(ctx, artifact.Key)
	if err != nil {
		return models.ArtifactRef{}, err
	}
	return models.ArtifactRef{Artifact: artifact, URL: url}, nil
}
