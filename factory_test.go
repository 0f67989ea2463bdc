package casefolio

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("Local", func(t *testing.T) {
		root := t.TempDir()
		adapter, err := OpenAdapter(ctx, Config{
			Provider:   ProviderLocal,
			RecordsDir: filepath.Join(root, "content"),
			AssetsDir:  filepath.Join(root, "public"),
		})
		if err != nil {
			t.Fatalf("OpenAdapter failed: %v", err)
		}
		if _, ok := adapter.(*LocalAdapter); !ok {
			t.Errorf("adapter = %T, want *LocalAdapter", adapter)
		}
	})

	t.Run("S3", func(t *testing.T) {
		adapter, err := OpenAdapter(ctx, Config{
			Provider:          ProviderS3,
			S3Bucket:          "studio-content",
			S3Region:          "auto",
			S3Endpoint:        "https://minio.internal:9000",
			S3AccessKeyID:     "key",
			S3SecretAccessKey: "secret",
		})
		if err != nil {
			t.Fatalf("OpenAdapter failed: %v", err)
		}
		if _, ok := adapter.(*S3Adapter); !ok {
			t.Errorf("adapter = %T, want *S3Adapter", adapter)
		}
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		_, err := OpenAdapter(ctx, Config{Provider: "ftp"})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
