package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/roman-kulish/gyro2bb/internal/camera"
	"github.com/roman-kulish/gyro2bb/internal/imu"
	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

const (
	CameraStart = "CAMERASTART"
	CameraEnd   = "CAMERAEND"
	IMUStart    = "IMUSTART"
	IMUEnd      = "IMUEND"
)

// SerializationError reports a value that could not be encoded or a line that
// could not be written to the output.
type SerializationError struct {
	msg string
	err error
}

func NewSerializationError(msg string, err error) *SerializationError {
	return &SerializationError{msg: msg, err: err}
}

func (e *SerializationError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.err)
}

func (e *SerializationError) Unwrap() error {
	return e.err
}

type cameraIdentity struct {
	Type  string `json:"type"`
	Model string `json:"model"`
}

type cameraRecord struct {
	Camera        cameraIdentity `json:"camera"`
	ExtraMetadata *string        `json:"extra_metadata"`
}

type axes struct {
	X Number `json:"x"`
	Y Number `json:"y"`
	Z Number `json:"z"`
}

type imuRecord struct {
	T Number `json:"t"`
	G axes   `json:"g"`
	A axes   `json:"a"`
}

func toAxes(v *telemetry.Vector3) axes {
	if v == nil {
		return axes{}
	}
	return axes{X: Number(v[0]), Y: Number(v[1]), Z: Number(v[2])}
}

// Emitter writes the framed camera and IMU blocks. Every line goes out in a
// single Write call.
type Emitter struct {
	w     io.Writer
	lines int
}

// NewEmitter creates an Emitter writing to w. w should be unbuffered or
// flushed by the caller once Emit returns.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes the camera block followed by the IMU block and returns the
// number of IMU lines written.
func (e *Emitter) Emit(ctx context.Context, info *camera.Info, samples telemetry.Iterator[imu.CanonicalSample]) (int, error) {
	if err := e.WriteCamera(info); err != nil {
		return 0, err
	}
	return e.WriteIMU(ctx, samples)
}

// WriteCamera writes the CAMERASTART..CAMERAEND block.
func (e *Emitter) WriteCamera(info *camera.Info) error {
	if err := e.writeLine([]byte(CameraStart)); err != nil {
		return err
	}

	record := cameraRecord{
		Camera: cameraIdentity{
			Type:  info.Type,
			Model: info.Model,
		},
		ExtraMetadata: info.ExtraMetadata,
	}
	if err := e.writeRecord(record); err != nil {
		return err
	}

	return e.writeLine([]byte(CameraEnd))
}

// WriteIMU writes the IMUSTART..IMUEND block, one line per sample carrying
// at least one inertial reading. A missing reading is written as a zero
// vector. IMUEND is not written if iteration fails.
func (e *Emitter) WriteIMU(ctx context.Context, samples telemetry.Iterator[imu.CanonicalSample]) (int, error) {
	if err := e.writeLine([]byte(IMUStart)); err != nil {
		return 0, err
	}

	var n int
	for samples.Next(ctx) {
		s := samples.Current()
		if s.Gyro == nil && s.Accl == nil {
			continue
		}

		record := imuRecord{
			T: Number(s.TimestampMs),
			G: toAxes(s.Gyro),
			A: toAxes(s.Accl),
		}
		if err := e.writeRecord(record); err != nil {
			return n, err
		}
		n++
	}
	if err := samples.Error(); err != nil {
		return n, fmt.Errorf("reading samples: %w", err)
	}

	return n, e.writeLine([]byte(IMUEnd))
}

// Lines returns the number of lines written so far.
func (e *Emitter) Lines() int {
	return e.lines
}

func (e *Emitter) writeRecord(v any) error {
	p, err := json.MarshalWithOption(v, json.DisableHTMLEscape())
	if err != nil {
		return NewSerializationError(fmt.Sprintf("encoding %T", v), err)
	}
	return e.writeLine(p)
}

func (e *Emitter) writeLine(p []byte) error {
	line := make([]byte, 0, len(p)+1)
	line = append(line, p...)
	line = append(line, '\n')

	if _, err := e.w.Write(line); err != nil {
		return NewSerializationError("writing output", err)
	}
	e.lines++
	return nil
}
