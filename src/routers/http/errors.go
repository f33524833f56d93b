package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kerberos-io/media/src/admission"
	"github.com/kerberos-io/media/src/auth"
	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/models"
	"github.com/kerberos-io/media/src/registry"
	"github.com/kerberos-io/media/src/retrieval"
	"github.com/kerberos-io/media/src/timestamp"
)

// Reads and uploads report the same failure with different words, both
// tables are part of the public contract.

// ReadError maps a retrieval failure to a status and an error message.
// An empty message means the status is sent without a body.
func ReadError(err error) (int, string) {
	var argument *retrieval.ArgumentError
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, "Permission denied, missing token"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrPermissionDenied),
		errors.Is(err, auth.ErrMissingIdentityClaims):
		return http.StatusUnauthorized, "Permission denied"
	case errors.Is(err, registry.ErrNotFound),
		errors.Is(err, retrieval.ErrNotFound):
		return http.StatusNotFound, "File not found"
	case errors.As(err, &argument):
		switch {
		case errors.Is(argument.Err, retrieval.ErrMissingArgument):
			return http.StatusBadRequest, "'" + argument.Name + "' argument is required"
		case errors.Is(argument.Err, timestamp.ErrNotInPast):
			return http.StatusBadRequest, "'" + argument.Name + "' datetime must be in the past"
		default:
			return http.StatusBadRequest, "'" + argument.Name + "' argument must be in " + timestamp.Pattern + " format"
		}
	}
	log.Log.Error("routers.http.errors.ReadError(): " + err.Error())
	return http.StatusInternalServerError, "Something went wrong"
}

// Every rejected upload name gets the same message, snapshots included.
const filenameMessage = "Filename needs to match '" + timestamp.Pattern + ".mp4' format"

// WriteError maps an admission failure of an upload.
func WriteError(err error) (int, string) {
	switch {
	case errors.Is(err, admission.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, ""
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, "Missing token"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrPermissionDenied):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, auth.ErrMissingIdentityClaims):
		return http.StatusUnauthorized, "Missing cameraId or buildingId"
	case errors.Is(err, admission.ErrFilename),
		errors.Is(err, admission.ErrContentMismatch),
		errors.Is(err, admission.ErrMalformedForm),
		errors.Is(err, timestamp.ErrFormat),
		errors.Is(err, timestamp.ErrNotInPast):
		return http.StatusBadRequest, filenameMessage
	}
	log.Log.Error("routers.http.errors.WriteError(): " + err.Error())
	return http.StatusInternalServerError, "Something went wrong"
}

func abort(c *gin.Context, status int, message string) {
	if message == "" {
		c.AbortWithStatus(status)
		return
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: message})
}
