package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/repository"
	"github.com/sirupsen/logrus"
)

func TestOpenBackend(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx := context.Background()

	if _, err := openBackend(ctx, &config.Config{StorageDriver: "redis"}, logger); err == nil {
		t.Error("expected error for unknown driver")
	}

	b, err := openBackend(ctx, &config.Config{StorageDriver: "memory"}, logger)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	b.Close()

	cfg := &config.Config{StorageDriver: "file", StoragePath: filepath.Join(t.TempDir(), "nested", "horizon.json")}
	b, err = openBackend(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	defer b.Close()
	if _, ok := b.userRepo.(*repository.LocalUserRepository); !ok {
		t.Errorf("file driver should use the local user repository, got %T", b.userRepo)
	}
}
