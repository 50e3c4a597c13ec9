package storage

import (
	"context"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

// Store provides an interface for managing recorded IMU data.
// All operations that write to the database should be considered atomic.
type Store interface {
	// CreateRecording stores the recording header and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - r: Recording header; ID and CreatedAt are assigned by the store
	//
	// Returns:
	//   - recordingID: Unique identifier for the created recording
	//   - error: If creation fails or context is cancelled
	CreateRecording(ctx context.Context, r *Recording) (recordingID int64, err error)

	// Recording retrieves a specific recording by its ID.
	Recording(ctx context.Context, id int64) (*Recording, error)

	// Recordings returns all recordings stored in the database, ordered by ID.
	Recordings(ctx context.Context) ([]*Recording, error)

	// StoreSamples appends samples, with their tags, to a recording. Samples
	// are written in chunks, each chunk in its own transaction.
	StoreSamples(ctx context.Context, recordingID int64, samples []telemetry.Sample) error

	// ReadSamples returns a lazy reader over the samples of a recording, in
	// the order they were stored. The reader must be closed after use.
	ReadSamples(ctx context.Context, recordingID int64) (telemetry.Iterator[*telemetry.Sample], error)

	// Close releases all database connections and resources.
	// It is safe to call Close multiple times.
	Close() error
}
