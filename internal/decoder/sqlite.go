package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roman-kulish/gyro2bb/internal/storage"
	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

// sqliteInput serves the first recording of a Sqlite recording database.
type sqliteInput struct {
	name      string
	store     *storage.SqliteStore
	recording *storage.Recording
	cleanup   func() error
}

var _ telemetry.Input = (*sqliteInput)(nil)

func decodeSqlite(ctx context.Context, r io.Reader, name string) (_ telemetry.Input, err error) {
	var path string
	cleanup := func() error { return nil }

	if f, ok := r.(*os.File); ok {
		path = f.Name()
	} else {
		// The driver needs a file; copy in-memory streams to a temporary one.
		if path, cleanup, err = spill(r); err != nil {
			return nil, NewDecodeError(name, "buffering recording", err)
		}
	}

	store := storage.NewSqliteStore(path)
	defer func() {
		if err != nil {
			err = errors.Join(err, store.Close(), cleanup())
		}
	}()

	recordings, err := store.Recordings(ctx)
	if err != nil {
		return nil, NewDecodeError(name, "listing recordings", err)
	}
	if len(recordings) == 0 {
		return nil, NewDecodeError(name, "no recordings", nil)
	}

	return &sqliteInput{
		name:      name,
		store:     store,
		recording: recordings[0],
		cleanup:   cleanup,
	}, nil
}

func spill(r io.Reader) (path string, cleanup func() error, err error) {
	f, err := os.CreateTemp("", "gyro2bb-*.sqlite")
	if err != nil {
		return "", nil, fmt.Errorf("creating temporary file: %w", err)
	}
	path = f.Name()
	cleanup = func() error { return os.Remove(path) }

	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = cleanup()
		return "", nil, fmt.Errorf("copying recording: %w", err)
	}
	if err = f.Close(); err != nil {
		_ = cleanup()
		return "", nil, fmt.Errorf("closing temporary file: %w", err)
	}
	return path, cleanup, nil
}

func (in *sqliteInput) CameraType() string {
	return in.recording.CameraType
}

func (in *sqliteInput) CameraModel() *string {
	return in.recording.CameraModel
}

func (in *sqliteInput) IMUOrientation() *string {
	return in.recording.IMUOrientation
}

func (in *sqliteInput) Samples(ctx context.Context) (telemetry.Iterator[*telemetry.Sample], error) {
	samples, err := in.store.ReadSamples(ctx, in.recording.ID)
	if err != nil {
		return nil, NewDecodeError(in.name, fmt.Sprintf("reading recording %d", in.recording.ID), err)
	}
	return &decodeIterator{Iterator: samples, name: in.name}, nil
}

func (in *sqliteInput) Close() error {
	return errors.Join(in.store.Close(), in.cleanup())
}

// decodeIterator reports iteration failures as DecodeError. Cancellation is
// passed through as is.
type decodeIterator struct {
	telemetry.Iterator[*telemetry.Sample]
	name string
}

func (it *decodeIterator) Error() error {
	err := it.Iterator.Error()
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return NewDecodeError(it.name, "reading samples", err)
}
