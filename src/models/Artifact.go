package models

import "time"

// MediaType is the kind of artifact, it is also the first segment of
// every blob key.
type MediaType string

const (
	Recording MediaType = "recordings"
	Snapshot  MediaType = "snapshots"
)

// CameraRef identifies a camera which exists in the registry.
type CameraRef struct {
	BuildingId string `json:"building_id" bson:"building_id"`
	CameraId   string `json:"camera_id" bson:"camera_id"`
}

// Artifact describes a stored recording or snapshot.
type Artifact struct {
	Key         string    `json:"key"`
	Kind        MediaType `json:"kind"`
	BuildingId  string    `json:"building_id"`
	CameraId    string    `json:"camera_id"`
	Timestamp   time.Time `json:"timestamp"`
	Extension   string    `json:"ext"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StoredAt    time.Time `json:"stored_at"`
	DurationMs  int64     `json:"duration_ms,omitempty"`
}

// ArtifactRef is what a lookup hands back to the caller: the artifact and
// a url to fetch it from.
type ArtifactRef struct {
	Artifact Artifact
	URL      string
}
