package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

const defaultBatchSize = 500

var _ Store = (*SqliteStore)(nil)

// WithBatchSize sets the maximum number of samples stored within a single
// database transaction.
func WithBatchSize(size int) func(*SqliteStore) {
	return func(s *SqliteStore) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath    string
	batchSize int

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store backed by the Sqlite database at dbPath.
// Connections are opened lazily; the schema is created on first write.
func NewSqliteStore(dbPath string, options ...func(*SqliteStore)) *SqliteStore {
	s := &SqliteStore{
		dbPath:    dbPath,
		batchSize: defaultBatchSize,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fileURI(s.dbPath, "_synchronous=NORMAL&_foreign_keys=on"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fileURI(s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateRecording(ctx context.Context, r *Recording) (recordingID int64, err error) {
	if r.CameraType == "" {
		return 0, errors.New("camera type is required")
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertRecordingSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	createdAt := time.Now().UTC()
	result, err := stmt.ExecContext(ctx, createdAt, r.SourceName, r.CameraType, toNullString(r.CameraModel), toNullString(r.IMUOrientation))
	if err != nil {
		err = fmt.Errorf("inserting recording: %w", err)
		return
	}

	recordingID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting recording ID: %w", err)
		return
	}

	r.ID = recordingID
	r.CreatedAt = createdAt
	return
}

func (s *SqliteStore) Recording(ctx context.Context, id int64) (recording *Recording, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectRecordingSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var rec recordingData
	if err = stmt.QueryRowContext(ctx, id).Scan(&rec.ID, &rec.CreatedAt, &rec.SourceName, &rec.CameraType, &rec.CameraModel, &rec.IMUOrientation); err != nil {
		err = fmt.Errorf("scanning recording: %w", err)
		return
	}

	return toRecording(&rec), nil
}

func (s *SqliteStore) Recordings(ctx context.Context) (recordings []*Recording, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectRecordingsSQL)
	if err != nil {
		err = fmt.Errorf("querying recordings: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var rec recordingData
		if err = rows.Scan(&rec.ID, &rec.CreatedAt, &rec.SourceName, &rec.CameraType, &rec.CameraModel, &rec.IMUOrientation); err != nil {
			err = fmt.Errorf("scanning recording: %w", err)
			return
		}
		recordings = append(recordings, toRecording(&rec))
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating recordings: %w", err)
	}
	return
}

func (s *SqliteStore) StoreSamples(ctx context.Context, recordingID int64, samples []telemetry.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	for chunk := range slices.Chunk(samples, s.batchSize) {
		if err = s.storeChunk(ctx, db, recordingID, chunk); err != nil {
			return fmt.Errorf("storing samples: %w", err)
		}
	}
	return nil
}

func (s *SqliteStore) storeChunk(ctx context.Context, db *sql.DB, recordingID int64, samples []telemetry.Sample) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	sampleStmt, err := tx.PrepareContext(ctx, insertSampleSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(sampleStmt, &err)

	tagStmt, err := tx.PrepareContext(ctx, insertTagSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(tagStmt, &err)

	for i := range samples {
		data := toSampleData(recordingID, &samples[i])

		result, err := sampleStmt.ExecContext(
			ctx,
			data.RecordingID,
			data.TimestampMs,
			data.GyroX,
			data.GyroY,
			data.GyroZ,
			data.AccelX,
			data.AccelY,
			data.AccelZ,
		)
		if err != nil {
			return fmt.Errorf("inserting sample: %w", err)
		}

		sampleID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting sample ID: %w", err)
		}

		for key, value := range samples[i].Tags {
			if _, err = tagStmt.ExecContext(ctx, sampleID, key.Group.String(), key.Tag.String(), value.Kind().String(), value.String()); err != nil {
				return fmt.Errorf("inserting tag %s/%s: %w", key.Group, key.Tag, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReadSamples creates a reader over the samples of a recording. Samples are
// fetched lazily, one at a time, together with their tags.
//
// The returned reader must be closed after use to release database resources.
// Each reader instance should only be used from a single goroutine.
func (s *SqliteStore) ReadSamples(ctx context.Context, recordingID int64) (telemetry.Iterator[*telemetry.Sample], error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	reader, err := newSqliteSampleReader(ctx, db, recordingID)
	if err != nil {
		return nil, err
	}
	return reader, nil
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
