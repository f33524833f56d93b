package registry

import (
	"context"

	"github.com/kerberos-io/media/src/models"
)

// StaticRegistry is built once from the buildings of the configuration.
type StaticRegistry struct {
	cameras map[models.CameraRef]struct{}
}

func NewStaticRegistry(buildings []models.Building) *StaticRegistry {
	cameras := make(map[models.CameraRef]struct{})
	for _, building := range buildings {
		for _, cameraId := range building.Cameras {
			cameras[models.CameraRef{BuildingId: building.Id, CameraId: cameraId}] = struct{}{}
		}
	}
	return &StaticRegistry{cameras: cameras}
}

func (s *StaticRegistry) Exists(ctx context.Context, buildingId string, cameraId string) (bool, error) {
	_, ok := s.cameras[models.CameraRef{BuildingId: buildingId, CameraId: cameraId}]
	return ok, nil
}
