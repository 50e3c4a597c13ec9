package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

const (
	insertRecordingSQL = `
INSERT INTO recordings (
                        created_at,
                        source_name,
                        camera_type,
                        camera_model,
                        imu_orientation)
VALUES (?, ?, ?, ?, ?)`

	selectRecordingSQL = `
SELECT 
    id, 
    created_at, 
    source_name, 
    camera_type, 
    camera_model,
    imu_orientation
FROM recordings 
WHERE 
    id = ?`

	selectRecordingsSQL = `
SELECT 
    id, 
    created_at, 
    source_name, 
    camera_type, 
    camera_model,
    imu_orientation
FROM recordings
ORDER BY id`

	insertSampleSQL = `
INSERT INTO samples (recording_id,
                     timestamp_ms,
                     gyro_x,
                     gyro_y,
                     gyro_z,
                     accel_x,
                     accel_y,
                     accel_z)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertTagSQL = `
INSERT INTO tags (sample_id,
                  group_name,
                  tag_name,
                  kind,
                  value)
VALUES (?, ?, ?, ?, ?)`

	// Tags are joined so that one sample may span several rows; rows of the
	// same sample are adjacent thanks to the ordering.
	selectSamplesSQL = `
SELECT 
    s.id,
    s.timestamp_ms,
    s.gyro_x,
    s.gyro_y,
    s.gyro_z,
    s.accel_x,
    s.accel_y,
    s.accel_z,
    t.group_name,
    t.tag_name,
    t.kind,
    t.value
FROM samples s
LEFT JOIN tags t ON t.sample_id = s.id
WHERE 
    s.recording_id = ?
ORDER BY s.id`
)
