package http

import (
	"github.com/gin-gonic/gin"
	"github.com/kerberos-io/media/src/components"
)

func AddRoutes(r *gin.Engine, services *components.Services) *gin.RouterGroup {

	// Read endpoints, used by client applications with a client token.
	r.GET("/recordings/buildings/:buildingId/cameras/:cameraId/files/:filename", func(c *gin.Context) {
		GetRecording(c, services)
	})
	r.GET("/recordings/buildings/:buildingId/cameras/:cameraId/event-date", func(c *gin.Context) {
		GetRecordingByEventDate(c, services)
	})
	r.GET("/snapshots/buildings/:buildingId/cameras/:cameraId", func(c *gin.Context) {
		GetLatestSnapshot(c, services)
	})

	// Upload endpoints, used by gateways. The token is a form field.
	r.POST("/recordings", func(c *gin.Context) {
		UploadRecording(c, services)
	})
	r.POST("/snapshots", func(c *gin.Context) {
		UploadSnapshot(c, services)
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			GetHealth(c, services)
		})
	}
	return api
}
