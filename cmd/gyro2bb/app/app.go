package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/gyro2bb/internal/camera"
	"github.com/roman-kulish/gyro2bb/internal/decoder"
	"github.com/roman-kulish/gyro2bb/internal/imu"
	"github.com/roman-kulish/gyro2bb/internal/stream"
)

// Run decodes the input named by config and writes the converted stream to
// stdout.
func Run(ctx context.Context, config *Config, logger *slog.Logger, stdout io.Writer) (err error) {
	// Reject a bad override before touching the input.
	if _, err = imu.ParseOrientation(config.IMUOrientation); err != nil {
		return err
	}

	src, err := decoder.Open(ctx, config.InputPath)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := src.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing input: %w", cErr)
		}
	}()

	logger.Info("input opened",
		slog.String("name", src.Name),
		slog.String("format", src.Format.String()),
		slog.String("size", humanize.Bytes(uint64(max(src.Size, 0)))))

	info, err := camera.FromInput(ctx, src)
	if err != nil {
		return fmt.Errorf("reading camera info: %w", err)
	}

	samples, err := imu.NormalizedIMU(ctx, src, config.IMUOrientation)
	if err != nil {
		return err
	}

	reader := imu.NewCanonicalReader(samples)
	defer func() {
		if cErr := reader.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing samples: %w", cErr)
		}
	}()

	logger.Info("converting",
		slog.Group("camera",
			slog.String("type", info.Type),
			slog.String("model", info.Model)),
		slog.Bool("extraMetadata", info.ExtraMetadata != nil),
		slog.String("imuOrientation", samples.Orientation().String()))

	emitter := stream.NewEmitter(stdout)
	n, err := emitter.Emit(ctx, info, reader)
	if err != nil {
		return fmt.Errorf("writing stream after %s samples: %w", humanize.Comma(int64(n)), err)
	}

	logger.Info("done",
		slog.String("samples", humanize.Comma(int64(n))),
		slog.Int("lines", emitter.Lines()))
	return nil
}
