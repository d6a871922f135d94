package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/config"
)

func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr string
	}{
		{name: "memory", cfg: &config.Config{StorageDriver: "memory"}},
		{name: "sqlite", cfg: &config.Config{StorageDriver: "sqlite", StoragePath: filepath.Join(t.TempDir(), "quill.db")}},
		{name: "badger", cfg: &config.Config{StorageDriver: "badger", StoragePath: t.TempDir()}},
		{name: "postgres without url", cfg: &config.Config{StorageDriver: "postgres"}, wantErr: "DATABASE_URL"},
		{name: "unknown driver", cfg: &config.Config{StorageDriver: "floppy"}, wantErr: "unknown STORAGE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.cfg, logger)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, store.Close())
		})
	}
}
