package auth

import "github.com/kerberos-io/media/src/models"

// Requirement describes what a surface expects from a verified token.
type Requirement struct {
	Class          TrustClass
	IdentityClaims bool
}

var (
	ReadAccess  = Requirement{Class: Client}
	WriteAccess = Requirement{Class: Gateway, IdentityClaims: true}
)

// Authorize applies a requirement to a verified token. A token of the
// wrong class is ErrPermissionDenied, a gateway token without a string
// buildingId and cameraId is ErrMissingIdentityClaims.
func Authorize(verified Verified, requirement Requirement) error {
	if verified.Class != requirement.Class {
		return ErrPermissionDenied
	}
	if requirement.IdentityClaims {
		if _, err := Identity(verified); err != nil {
			return err
		}
	}
	return nil
}

// Identity returns the camera a gateway token speaks for.
func Identity(verified Verified) (models.CameraRef, error) {
	buildingId, ok := stringClaim(verified, "buildingId")
	if !ok {
		return models.CameraRef{}, ErrMissingIdentityClaims
	}
	cameraId, ok := stringClaim(verified, "cameraId")
	if !ok {
		return models.CameraRef{}, ErrMissingIdentityClaims
	}
	return models.CameraRef{BuildingId: buildingId, CameraId: cameraId}, nil
}

func stringClaim(verified Verified, name string) (string, bool) {
	value, ok := verified.Claims[name].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
