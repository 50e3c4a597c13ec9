package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roman-kulish/gyro2bb/internal/storage"
	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dump renders a telemetry dump with n samples, alternating gyro-only and
// accelerometer-only readings.
func dump(cameraType string, orientation string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "camera:\n  type: %s\n", cameraType)
	if orientation != "" {
		fmt.Fprintf(&b, "imu_orientation: %s\n", orientation)
	}
	b.WriteString("samples:\n")
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&b, "  - t: %d\n    gyro: [%d, 0, 0]\n", i, i)
		} else {
			fmt.Fprintf(&b, "  - t: %d\n    accl: [0, %d, 0]\n", i, i)
		}
	}
	return b.String()
}

func writeDump(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write dump: %v", err)
	}
	return path
}

func TestOrchestrator(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	override := "zyx"

	inputs := []InputConfig{
		{Name: "front", Path: writeDump(t, dir, "front.yaml", dump("GoPro", "yXZ", 7)), Enabled: true},
		{Name: "rear", Path: writeDump(t, dir, "rear.yaml", dump("Sony", "", 4)), Enabled: true, IMUOrientation: &override},
		{Name: "spare", Path: filepath.Join(dir, "missing.yaml")},
	}

	store := storage.NewSqliteStore(filepath.Join(dir, "out.sqlite"))
	defer store.Close()

	o := NewOrchestrator(store, discardLogger(), WithMaxBatchSize(3))
	defer o.Close()

	for i := range inputs {
		if err := o.AddInput(ctx, &inputs[i]); err != nil {
			t.Fatalf("AddInput failed: %v", err)
		}
	}
	if err := o.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	recordings, err := store.Recordings(ctx)
	if err != nil {
		t.Fatalf("Failed to list recordings: %v", err)
	}
	if len(recordings) != 2 {
		t.Fatalf("Expected 2 recordings, got %d", len(recordings))
	}

	testCases := []struct {
		name        string
		cameraType  string
		orientation string
		samples     int
	}{
		{"front", "GoPro", "yXZ", 7},
		{"rear", "Sony", "zyx", 4},
	}
	for i, tc := range testCases {
		rec := recordings[i]
		if rec.SourceName != tc.name || rec.CameraType != tc.cameraType {
			t.Errorf("Recording %d: unexpected %+v", i, rec)
		}
		if rec.IMUOrientation == nil || *rec.IMUOrientation != tc.orientation {
			t.Errorf("Recording %d: expected orientation %s, got %v", i, tc.orientation, rec.IMUOrientation)
		}

		it, err := store.ReadSamples(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Failed to read samples: %v", err)
		}

		var got []*telemetry.Sample
		for it.Next(ctx) {
			got = append(got, it.Current())
		}
		if err = it.Error(); err != nil {
			t.Fatalf("Iteration failed: %v", err)
		}
		_ = it.Close()

		if len(got) != tc.samples {
			t.Fatalf("Recording %d: expected %d samples, got %d", i, tc.samples, len(got))
		}
		for j, s := range got {
			if s.TimestampMs != float64(j) {
				t.Errorf("Recording %d sample %d: out of order timestamp %f", i, j, s.TimestampMs)
			}
			if (j%2 == 0) != (s.Gyro != nil) || (j%2 == 1) != (s.Accl != nil) {
				t.Errorf("Recording %d sample %d: unexpected readings %v %v", i, j, s.Gyro, s.Accl)
			}
		}
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	valid := writeDump(t, dir, "a.yaml", dump("GoPro", "", 2))

	store := storage.NewSqliteStore(filepath.Join(dir, "out.sqlite"))
	defer store.Close()

	o := NewOrchestrator(store, discardLogger())
	defer o.Close()

	if err := o.Run(ctx); err == nil {
		t.Error("Expected error without inputs")
	}

	invalid := "xyy"
	if err := o.AddInput(ctx, &InputConfig{Name: "a", Path: valid, Enabled: true, IMUOrientation: &invalid}); err == nil {
		t.Error("Expected error for invalid orientation")
	}
	if err := o.AddInput(ctx, &InputConfig{Name: "b", Path: filepath.Join(dir, "missing.yaml"), Enabled: true}); err == nil {
		t.Error("Expected error for missing input")
	}
	if err := o.AddInput(ctx, &InputConfig{Name: "a", Path: valid, Enabled: true}); err != nil {
		t.Fatalf("AddInput failed: %v", err)
	}
	if err := o.AddInput(ctx, &InputConfig{Name: "a", Path: valid, Enabled: true}); err == nil {
		t.Error("Expected error for duplicate input")
	}
}

func TestOrchestrator_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "a.yaml", dump("GoPro", "", 10))

	store := storage.NewSqliteStore(filepath.Join(dir, "out.sqlite"))
	defer store.Close()

	o := NewOrchestrator(store, discardLogger(), WithMaxBatchSize(2))
	defer o.Close()

	ctx, cancel := context.WithCancel(context.Background())
	if err := o.AddInput(ctx, &InputConfig{Name: "a", Path: path, Enabled: true}); err != nil {
		t.Fatalf("AddInput failed: %v", err)
	}
	cancel()

	if err := o.Run(ctx); err == nil {
		t.Error("Expected error after cancellation")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatalf("Failed to create output directory: %v", err)
	}

	config := &Config{
		Inputs: []InputConfig{
			{Name: "clip", Path: writeDump(t, dir, "clip.yaml", dump("GoPro", "", 5)), Enabled: true},
		},
		Storage: StorageConfig{DataDirectory: out, MaxBatchSize: 2},
	}
	if err := Run(context.Background(), config, discardLogger()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(out, "recording_*.sqlite"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("Expected one recording database, got %v (%v)", matches, err)
	}

	config.Storage.DataDirectory = filepath.Join(dir, "missing")
	if err = Run(context.Background(), config, discardLogger()); err == nil {
		t.Error("Expected error for missing storage directory")
	}
}
