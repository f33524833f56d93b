package models

type APIResponse struct {
	Data    interface{} `json:"data" bson:"data"`
	Message interface{} `json:"message" bson:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"File not found"`
}

// ArtifactResponse is returned by the retrieval endpoints.
type ArtifactResponse struct {
	URL       string `json:"url" example:"https://media.example.com/file/recordings/b1/c1/2024-01-01--10-00-00.mp4"`
	Filename  string `json:"filename,omitempty" example:"2024-01-01--10-00-00.mp4"`
	Timestamp string `json:"timestamp,omitempty" example:"2024-01-01--10-00-00"`
}

// UploadResponse is returned after an artifact was admitted and stored.
type UploadResponse struct {
	Key        string `json:"key" example:"recordings/b1/c1/2024-01-01--10-00-00.mp4"`
	Filename   string `json:"filename" example:"2024-01-01--10-00-00.mp4"`
	Size       int64  `json:"size" example:"1572864"`
	DurationMs int64  `json:"duration_ms,omitempty" example:"60000"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Ready bool `json:"ready"`
}
