package storage

import (
	"database/sql"
	"time"
)

type recordingData struct {
	ID             int64
	CreatedAt      time.Time
	SourceName     string
	CameraType     string
	CameraModel    sql.NullString
	IMUOrientation sql.NullString
}

type sampleData struct {
	ID          int64
	RecordingID int64
	TimestampMs float64
	GyroX       sql.NullFloat64
	GyroY       sql.NullFloat64
	GyroZ       sql.NullFloat64
	AccelX      sql.NullFloat64
	AccelY      sql.NullFloat64
	AccelZ      sql.NullFloat64
}

type tagData struct {
	SampleID int64
	Group    sql.NullString
	Tag      sql.NullString
	Kind     sql.NullString
	Value    sql.NullString
}

type sampleWithTagData struct {
	sampleData
	tagData
}
