package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

// newSqliteSampleReader creates a new reader for the samples of a recording.
func newSqliteSampleReader(ctx context.Context, db *sql.DB, recordingID int64) (*SqliteSampleReader, error) {
	sr := &SqliteSampleReader{
		db:          db,
		recordingID: recordingID,
	}
	if err := sr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return sr, nil
}

// SqliteSampleReader implements telemetry.Iterator over the samples of a
// single recording.
type SqliteSampleReader struct {
	db          *sql.DB
	recordingID int64

	currentSample    *telemetry.Sample
	nextSample       *telemetry.Sample // First row of the next sample, already scanned
	nextSampleID     int64
	nextSampleExists bool
	rows             *sql.Rows
	err              error
}

func (sr *SqliteSampleReader) init(ctx context.Context) error {
	if sr.db == nil {
		return errors.New("database connection required")
	}
	if sr.recordingID <= 0 {
		return errors.New("recording ID required")
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "checking recording", fn: sr.checkRecording},
		{msg: "initializing query", fn: sr.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (sr *SqliteSampleReader) checkRecording(ctx context.Context) (err error) {
	stmt, err := sr.db.PrepareContext(ctx, selectRecordingSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var rec recordingData
	if err = stmt.QueryRowContext(ctx, sr.recordingID).Scan(&rec.ID, &rec.CreatedAt, &rec.SourceName, &rec.CameraType, &rec.CameraModel, &rec.IMUOrientation); err != nil {
		return fmt.Errorf("querying recording: %w", err)
	}
	return nil
}

func (sr *SqliteSampleReader) initQuery(ctx context.Context) (err error) {
	stmt, err := sr.db.PrepareContext(ctx, selectSamplesSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if sr.rows, err = stmt.QueryContext(ctx, sr.recordingID); err != nil {
		return err
	}
	return nil
}

// scanRow scans a joined sample/tag row. The returned sample carries at most
// the one tag found on that row.
func (sr *SqliteSampleReader) scanRow() (int64, *telemetry.Sample, error) {
	var row sampleWithTagData
	err := sr.rows.Scan(
		&row.ID,
		&row.TimestampMs,
		&row.GyroX,
		&row.GyroY,
		&row.GyroZ,
		&row.AccelX,
		&row.AccelY,
		&row.AccelZ,
		&row.Group,
		&row.Tag,
		&row.Kind,
		&row.Value,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("scanning sample: %w", err)
	}

	sample := &telemetry.Sample{TimestampMs: row.TimestampMs}
	if sample.Gyro, err = fromNullVector(row.GyroX, row.GyroY, row.GyroZ); err != nil {
		return 0, nil, fmt.Errorf("sample %d gyroscope: %w", row.ID, err)
	}
	if sample.Accl, err = fromNullVector(row.AccelX, row.AccelY, row.AccelZ); err != nil {
		return 0, nil, fmt.Errorf("sample %d accelerometer: %w", row.ID, err)
	}

	if err = sr.addTag(sample, &row.tagData); err != nil {
		return 0, nil, fmt.Errorf("sample %d: %w", row.ID, err)
	}
	return row.ID, sample, nil
}

func (sr *SqliteSampleReader) addTag(sample *telemetry.Sample, t *tagData) error {
	key, value, ok, err := toTag(t)
	if err != nil || !ok {
		return err
	}
	if sample.Tags == nil {
		sample.Tags = make(telemetry.TagMap)
	}
	sample.Tags[key] = value
	return nil
}

func (sr *SqliteSampleReader) Next(ctx context.Context) bool {
	if sr.err != nil || sr.rows == nil {
		return false
	}

	var sample *telemetry.Sample
	var sampleID int64
	if sr.nextSampleExists {
		sample, sampleID = sr.nextSample, sr.nextSampleID
		sr.nextSample, sr.nextSampleExists = nil, false
	}

	for {
		if err := ctx.Err(); err != nil {
			sr.err = err
			return false
		}

		if !sr.rows.Next() {
			sr.currentSample = sample
			return sample != nil
		}

		id, row, err := sr.scanRow()
		if err != nil {
			sr.err = err
			return false
		}

		switch {
		case sample == nil:
			sample, sampleID = row, id

		case id != sampleID:
			// First row of the following sample; keep it for the next call.
			sr.nextSample, sr.nextSampleID, sr.nextSampleExists = row, id, true
			sr.currentSample = sample
			return true

		default:
			// Another tag of the same sample.
			for key, value := range row.Tags {
				if sample.Tags == nil {
					sample.Tags = make(telemetry.TagMap)
				}
				sample.Tags[key] = value
			}
		}
	}
}

func (sr *SqliteSampleReader) Current() *telemetry.Sample {
	return sr.currentSample
}

func (sr *SqliteSampleReader) Error() error {
	if sr.err != nil {
		return sr.err
	}
	if sr.rows != nil {
		return sr.rows.Err()
	}
	return nil
}

func (sr *SqliteSampleReader) Close() error {
	if sr.rows != nil {
		err := sr.rows.Close()
		sr.currentSample = nil
		sr.nextSampleExists = false
		sr.rows = nil
		return err
	}
	return nil
}
