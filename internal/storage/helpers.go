package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && cErr != sql.ErrTxDone && *err == nil {
		*err = cErr
	}
}

// fileURI builds a Sqlite URI filename for path. Every path segment is
// escaped, so '?', '#' and '%' in file names are not read as URI syntax.
func fileURI(path, params string) string {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("file:%s?%s", strings.Join(segments, "/"), params)
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// toNullVector splits an optional reading into three nullable columns.
func toNullVector(v *telemetry.Vector3) (x, y, z sql.NullFloat64) {
	if v == nil {
		return
	}
	x = sql.NullFloat64{Float64: v[0], Valid: true}
	y = sql.NullFloat64{Float64: v[1], Valid: true}
	z = sql.NullFloat64{Float64: v[2], Valid: true}
	return
}

// fromNullVector joins three nullable columns into an optional reading. Either
// all columns are set or none is.
func fromNullVector(x, y, z sql.NullFloat64) (*telemetry.Vector3, error) {
	switch {
	case x.Valid && y.Valid && z.Valid:
		return &telemetry.Vector3{x.Float64, y.Float64, z.Float64}, nil
	case !x.Valid && !y.Valid && !z.Valid:
		return nil, nil
	}
	return nil, fmt.Errorf("partial reading: x=%v y=%v z=%v", x.Valid, y.Valid, z.Valid)
}

func toRecording(r *recordingData) *Recording {
	return &Recording{
		ID:             r.ID,
		CreatedAt:      r.CreatedAt,
		SourceName:     r.SourceName,
		CameraType:     r.CameraType,
		CameraModel:    fromNullString(r.CameraModel),
		IMUOrientation: fromNullString(r.IMUOrientation),
	}
}

func toSampleData(recordingID int64, s *telemetry.Sample) *sampleData {
	d := sampleData{
		RecordingID: recordingID,
		TimestampMs: s.TimestampMs,
	}
	d.GyroX, d.GyroY, d.GyroZ = toNullVector(s.Gyro)
	d.AccelX, d.AccelY, d.AccelZ = toNullVector(s.Accl)
	return &d
}

// toTag converts the tag columns of a joined row. It returns false when the
// sample has no tags.
func toTag(t *tagData) (telemetry.TagKey, telemetry.TagValue, bool, error) {
	if !t.Group.Valid {
		return telemetry.TagKey{}, telemetry.TagValue{}, false, nil
	}

	group, err := telemetry.ParseGroupID(t.Group.String)
	if err != nil {
		return telemetry.TagKey{}, telemetry.TagValue{}, false, err
	}
	tag, err := telemetry.ParseTagID(t.Tag.String)
	if err != nil {
		return telemetry.TagKey{}, telemetry.TagValue{}, false, err
	}
	kind, err := telemetry.ParseValueKind(t.Kind.String)
	if err != nil {
		return telemetry.TagKey{}, telemetry.TagValue{}, false, err
	}
	value, err := telemetry.ParseTagValue(kind, t.Value.String)
	if err != nil {
		return telemetry.TagKey{}, telemetry.TagValue{}, false, fmt.Errorf("tag %s/%s: %w", group, tag, err)
	}

	return telemetry.TagKey{Group: group, Tag: tag}, value, true, nil
}
