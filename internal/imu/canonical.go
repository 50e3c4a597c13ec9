package imu

import (
	"context"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

// AccelScale converts accelerometer readings in g to the fixed-point scale
// expected by the blackbox consumers (2048 LSB/g).
const AccelScale = 2048.0

// CanonicalSample is a sample in the output frame, ready to be emitted.
type CanonicalSample struct {
	TimestampMs float64
	Gyro        *telemetry.Vector3 // Present iff the source carried a gyroscope reading
	Accl        *telemetry.Vector3 // Present iff the source carried an accelerometer reading, scaled by AccelScale
}

// BaseRemap maps the IMU frame into the camera body frame:
//
//	x = -v[2], y = v[1], z = v[0]
func BaseRemap(v telemetry.Vector3) telemetry.Vector3 {
	return telemetry.Vector3{-v[2], v[1], v[0]}
}

// ScaleAccel applies AccelScale to every component of v.
func ScaleAccel(v telemetry.Vector3) telemetry.Vector3 {
	return telemetry.Vector3{v[0] * AccelScale, v[1] * AccelScale, v[2] * AccelScale}
}

// Canonicalize converts s into the output frame. It returns false if s has
// neither a gyroscope nor an accelerometer reading.
func Canonicalize(s TimeIMU) (CanonicalSample, bool) {
	if s.Gyro == nil && s.Accl == nil {
		return CanonicalSample{}, false
	}

	c := CanonicalSample{TimestampMs: s.TimestampMs}
	if s.Gyro != nil {
		g := BaseRemap(*s.Gyro)
		c.Gyro = &g
	}
	if s.Accl != nil {
		a := ScaleAccel(BaseRemap(*s.Accl))
		c.Accl = &a
	}
	return c, true
}

// CanonicalReader lazily canonicalizes a normalized sequence, skipping
// samples that carry no inertial readings.
type CanonicalReader struct {
	src     telemetry.Iterator[TimeIMU]
	current CanonicalSample
}

// NewCanonicalReader wraps src.
func NewCanonicalReader(src telemetry.Iterator[TimeIMU]) *CanonicalReader {
	return &CanonicalReader{src: src}
}

func (cr *CanonicalReader) Next(ctx context.Context) bool {
	for cr.src.Next(ctx) {
		if c, ok := Canonicalize(cr.src.Current()); ok {
			cr.current = c
			return true
		}
	}
	return false
}

func (cr *CanonicalReader) Current() CanonicalSample {
	return cr.current
}

func (cr *CanonicalReader) Error() error {
	return cr.src.Error()
}

func (cr *CanonicalReader) Close() error {
	return cr.src.Close()
}
