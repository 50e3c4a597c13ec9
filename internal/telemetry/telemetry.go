package telemetry

import (
	"context"
)

// Vector3 is a three-axis sensor reading, ordered x, y, z in the frame it was
// captured in.
type Vector3 [3]float64

// Sample is a single decoder-produced record.
type Sample struct {
	TimestampMs float64  // Timestamp in milliseconds from the start of the recording
	Gyro        *Vector3 // Angular velocity, nil if the record carries no gyroscope reading
	Accl        *Vector3 // Linear acceleration in g, nil if the record carries no accelerometer reading
	Tags        TagMap   // Optional metadata attached to the record
}

// Input is the contract a container decoder fulfils. Decoders own their
// samples; consumers only read them.
type Input interface {
	// CameraType returns the camera vendor or family identifier.
	CameraType() string

	// CameraModel returns the camera model, nil if the container does not
	// record one.
	CameraModel() *string

	// IMUOrientation returns the orientation of the IMU as declared by the
	// container, nil if unknown.
	IMUOrientation() *string

	// Samples returns a fresh single-pass iterator over the decoded samples,
	// in timestamp order.
	Samples(ctx context.Context) (Iterator[*Sample], error)

	// Close releases resources held by the decoder.
	Close() error
}
