package models

import "time"

// The OutputMessage is sent to each configured output once an artifact
// was stored.
type OutputMessage struct {
	Id         string    `json:"id"`
	Event      string    `json:"event"`
	Kind       MediaType `json:"kind"`
	BuildingId string    `json:"building_id"`
	CameraId   string    `json:"camera_id"`
	Filename   string    `json:"filename"`
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	Timestamp  time.Time `json:"timestamp"`
}
