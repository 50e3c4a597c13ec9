package storage

import (
	"time"
)

// Recording describes a single capture stored in the database. Samples belong
// to exactly one recording.
type Recording struct {
	ID             int64     `json:"ID"`                       // Unique identifier for the recording
	CreatedAt      time.Time `json:"createdAt"`                // When the recording was stored
	SourceName     string    `json:"sourceName"`               // Name of the file or device the samples came from
	CameraType     string    `json:"cameraType"`               // Camera vendor or family, e.g. "GoPro"
	CameraModel    *string   `json:"cameraModel,omitempty"`    // Camera model, if known
	IMUOrientation *string   `json:"imuOrientation,omitempty"` // Orientation of the IMU relative to the camera body, if known
}
