package imu

import (
	"context"
	"fmt"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

// TimeIMU is a sample rotated into the IMU frame declared by the orientation.
type TimeIMU struct {
	TimestampMs float64
	Gyro        *telemetry.Vector3
	Accl        *telemetry.Vector3
}

// ResolveOrientation picks the orientation to apply: the user supplied one if
// given, otherwise the one the container declares, otherwise Identity.
func ResolveOrientation(input telemetry.Input, imuo *string) (Orientation, error) {
	if imuo == nil {
		imuo = input.IMUOrientation()
	}
	return ParseOrientation(imuo)
}

// NormalizedIMU returns the samples of input rotated by the resolved
// orientation. Samples without inertial readings are passed through; dropping
// them is up to the consumer.
func NormalizedIMU(ctx context.Context, input telemetry.Input, imuo *string) (*NormalizedReader, error) {
	orientation, err := ResolveOrientation(input, imuo)
	if err != nil {
		return nil, err
	}

	samples, err := input.Samples(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}

	return &NormalizedReader{
		samples:     samples,
		orientation: orientation,
	}, nil
}

// NormalizedReader lazily applies an Orientation to a sample sequence.
type NormalizedReader struct {
	samples     telemetry.Iterator[*telemetry.Sample]
	orientation Orientation
	current     TimeIMU
}

// Orientation returns the orientation being applied.
func (nr *NormalizedReader) Orientation() Orientation {
	return nr.orientation
}

func (nr *NormalizedReader) Next(ctx context.Context) bool {
	if !nr.samples.Next(ctx) {
		return false
	}

	s := nr.samples.Current()
	nr.current = TimeIMU{
		TimestampMs: s.TimestampMs,
		Gyro:        nr.orientation.ApplyTo(s.Gyro),
		Accl:        nr.orientation.ApplyTo(s.Accl),
	}
	return true
}

func (nr *NormalizedReader) Current() TimeIMU {
	return nr.current
}

func (nr *NormalizedReader) Error() error {
	return nr.samples.Error()
}

func (nr *NormalizedReader) Close() error {
	return nr.samples.Close()
}
