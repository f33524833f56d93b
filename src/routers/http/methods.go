package http

import (
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kerberos-io/media/src/admission"
	"github.com/kerberos-io/media/src/components"
	"github.com/kerberos-io/media/src/models"
)

// Bytes read from a rejected upload so the client still gets the 413.
const maxDrain = 64 << 20

// GetRecording godoc
// @Router /recordings/buildings/{buildingId}/cameras/{cameraId}/files/{filename} [get]
// @ID get-recording
// @Tags recordings
// @Summary Get the recording stored at an exact timestamp.
// @Description Get the recording stored at an exact timestamp, the filename is the timestamp in yyyy-MM-dd--HH-mm-ss format.
// @Security Bearer
// @Param buildingId path string true "Building identifier"
// @Param cameraId path string true "Camera identifier"
// @Param filename path string true "Timestamp of the recording" example(2024-01-01--10-00-00)
// @Param token query string false "Client token"
// @Produce json
// @Success 200 {object} models.ArtifactResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
func GetRecording(c *gin.Context, services *components.Services) {
	ref, err := services.Retrieval.GetByTimestamp(c.Request.Context(), Token(c), models.Recording,
		c.Param("buildingId"), c.Param("cameraId"), c.Param("filename"))
	respondArtifact(c, services, models.Recording, ref, err)
}

// GetRecordingByEventDate godoc
// @Router /recordings/buildings/{buildingId}/cameras/{cameraId}/event-date [get]
// @ID get-recording-event-date
// @Tags recordings
// @Summary Get the recording of an event.
// @Description Get the most recent recording that started at or before the query timestamp.
// @Security Bearer
// @Param buildingId path string true "Building identifier"
// @Param cameraId path string true "Camera identifier"
// @Param query query string true "Timestamp of the event" example(2024-01-01--10-00-30)
// @Param token query string false "Client token"
// @Produce json
// @Success 200 {object} models.ArtifactResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
func GetRecordingByEventDate(c *gin.Context, services *components.Services) {
	ref, err := services.Retrieval.GetNearestAtOrBefore(c.Request.Context(), Token(c), models.Recording,
		c.Param("buildingId"), c.Param("cameraId"), c.Query("query"))
	respondArtifact(c, services, models.Recording, ref, err)
}

// GetLatestSnapshot godoc
// @Router /snapshots/buildings/{buildingId}/cameras/{cameraId} [get]
// @ID get-latest-snapshot
// @Tags snapshots
// @Summary Get the latest snapshot of a camera.
// @Description Get the latest snapshot of a camera.
// @Security Bearer
// @Param buildingId path string true "Building identifier"
// @Param cameraId path string true "Camera identifier"
// @Param token query string false "Client token"
// @Produce json
// @Success 200 {object} models.ArtifactResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
func GetLatestSnapshot(c *gin.Context, services *components.Services) {
	ref, err := services.Retrieval.GetLatest(c.Request.Context(), Token(c), models.Snapshot,
		c.Param("buildingId"), c.Param("cameraId"))
	respondArtifact(c, services, models.Snapshot, ref, err)
}

// UploadRecording godoc
// @Router /recordings [post]
// @ID upload-recording
// @Tags recordings
// @Summary Upload a recording.
// @Description Upload a recording from a gateway. The file must be named yyyy-MM-dd--HH-mm-ss.mp4, the building and camera are taken from the gateway token.
// @Accept multipart/form-data
// @Param token formData string true "Gateway token"
// @Param file formData file true "Recording"
// @Produce json
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 413
func UploadRecording(c *gin.Context, services *components.Services) {
	upload(c, services, models.Recording)
}

// UploadSnapshot godoc
// @Router /snapshots [post]
// @ID upload-snapshot
// @Tags snapshots
// @Summary Upload a snapshot.
// @Description Upload a snapshot from a gateway. The file must be a png or jpeg image named yyyy-MM-dd--HH-mm-ss.
// @Accept multipart/form-data
// @Param token formData string true "Gateway token"
// @Param file formData file true "Snapshot"
// @Produce json
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 413
func UploadSnapshot(c *gin.Context, services *components.Services) {
	upload(c, services, models.Snapshot)
}

// GetHealth godoc
// @Router /api/health [get]
// @ID health
// @Tags general
// @Summary Tells if the service is ready to serve requests.
// @Description Tells if the service is ready to serve requests.
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
func GetHealth(c *gin.Context, services *components.Services) {
	ready := services.Ready.IsSet()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, models.HealthResponse{Ready: ready})
}

func upload(c *gin.Context, services *components.Services, kind models.MediaType) {
	var artifact models.Artifact
	reader, err := c.Request.MultipartReader()
	if err != nil {
		err = admission.ErrMalformedForm
	} else {
		artifact, err = services.Admission.Admit(c.Request.Context(), kind, reader)
	}
	if err != nil {
		status, message := WriteError(err)
		if status == http.StatusRequestEntityTooLarge {
			io.CopyN(io.Discard, c.Request.Body, maxDrain)
		}
		services.Metrics.IncAdmission(string(kind), strconv.Itoa(status))
		abort(c, status, message)
		return
	}

	services.Metrics.IncAdmission(string(kind), strconv.Itoa(http.StatusOK))
	services.Metrics.ObserveUploadSize(string(kind), artifact.Size)
	c.JSON(http.StatusOK, models.UploadResponse{
		Key:        artifact.Key,
		Filename:   path.Base(artifact.Key),
		Size:       artifact.Size,
		DurationMs: artifact.DurationMs,
	})
}

func respondArtifact(c *gin.Context, services *components.Services, kind models.MediaType, ref models.ArtifactRef, err error) {
	if err != nil {
		status, message := ReadError(err)
		services.Metrics.IncRetrieval(string(kind), strconv.Itoa(status))
		abort(c, status, message)
		return
	}
	services.Metrics.IncRetrieval(string(kind), strconv.Itoa(http.StatusOK))
	c.JSON(http.StatusOK, models.ArtifactResponse{
		URL:       ref.URL,
		Filename:  path.Base(ref.Artifact.Key),
		Timestamp: services.Codec.Format(ref.Artifact.Timestamp),
	})
}
