package camera

import (
	"context"
	"fmt"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

// Info identifies the camera a recording was made with.
type Info struct {
	Type          string
	Model         string  // Empty if the container does not record a model
	ExtraMetadata *string // Serialized (Default, Metadata) tag of the first sample
}

// ExtractMetadata returns the serialized metadata tag of the first sample in
// samples, or nil if the first sample has none. Later samples are never
// examined: containers place this tag on the first record only.
func ExtractMetadata(ctx context.Context, samples telemetry.Iterator[*telemetry.Sample]) (*string, error) {
	if !samples.Next(ctx) {
		return nil, samples.Error()
	}

	first := samples.Current()
	if first == nil {
		return nil, nil
	}

	value, ok := first.Tags.Get(telemetry.GroupDefault, telemetry.TagMetadata)
	if !ok {
		return nil, nil
	}

	s := value.String()
	return &s, nil
}

// FromInput collects camera identity and extra metadata from input.
func FromInput(ctx context.Context, input telemetry.Input) (info *Info, err error) {
	info = &Info{Type: input.CameraType()}
	if model := input.CameraModel(); model != nil {
		info.Model = *model
	}

	samples, err := input.Samples(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}
	defer func() {
		if cErr := samples.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing samples: %w", cErr)
		}
	}()

	if info.ExtraMetadata, err = ExtractMetadata(ctx, samples); err != nil {
		return nil, fmt.Errorf("extracting metadata: %w", err)
	}
	return info, nil
}
