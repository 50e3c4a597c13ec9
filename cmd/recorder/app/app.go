package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roman-kulish/gyro2bb/internal/storage"
)

const (
	storageDir = "data"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, dbPath, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	logger.Info("recording to", slog.String("path", dbPath))

	o := NewOrchestrator(store, logger, WithMaxBatchSize(config.Storage.MaxBatchSize))
	defer o.Close()

	for i := range config.Inputs {
		if err = o.AddInput(ctx, &config.Inputs[i]); err != nil {
			return fmt.Errorf("failed to add input: %w", err)
		}
	}

	return o.Run(ctx)
}

func createStorage(config *StorageConfig) (*storage.SqliteStore, string, error) {
	dir := config.DataDirectory
	if dir == "" {
		dir = storageDir
	}
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	stat, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("storage directory '%s' does not exist: %w", dir, err)
		}
		return nil, "", err
	}
	if !stat.IsDir() {
		return nil, "", fmt.Errorf("invalid storage directory '%s'", dir)
	}

	dbPath := filepath.Join(dir, fmt.Sprintf("recording_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return storage.NewSqliteStore(dbPath, storage.WithBatchSize(config.MaxBatchSize)), dbPath, nil
}
