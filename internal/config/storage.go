package config

import (
	"fmt"

	"github.com/lewisedginton/storefront_chatbot/internal/storage_manager"
)

// StorageConfig locates catalog import files
type StorageConfig struct {
	Backend  string `env:"STORAGE_BACKEND" yaml:"backend" default:"local"`      // "local" or "s3"
	LocalDir string `env:"STORAGE_LOCAL_DIR" yaml:"local_dir" default:"./data"` // Base directory for local storage
	S3Bucket string `env:"STORAGE_S3_BUCKET" yaml:"s3_bucket"`
	S3Prefix string `env:"STORAGE_S3_PREFIX" yaml:"s3_prefix"`
	S3Region string `env:"STORAGE_S3_REGION" yaml:"s3_region"`
	// S3Endpoint points at an S3-compatible service such as MinIO
	S3Endpoint string `env:"STORAGE_S3_ENDPOINT" yaml:"s3_endpoint"`
}

// Validate checks the backend and its required settings.
func (s StorageConfig) Validate() error {
	switch storage_manager.BackendType(s.Backend) {
	case storage_manager.BackendLocal:
		if s.LocalDir == "" {
			return fmt.Errorf("storage local_dir is required for the local backend")
		}
	case storage_manager.BackendS3:
		if s.S3Bucket == "" {
			return fmt.Errorf("storage s3_bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("storage backend must be one of [local, s3], got %q", s.Backend)
	}
	return nil
}

// ManagerConfig converts the settings for storage_manager.New.
func (s StorageConfig) ManagerConfig() storage_manager.Config {
	return storage_manager.Config{
		Backend:  storage_manager.BackendType(s.Backend),
		BaseDir:  s.LocalDir,
		Bucket:   s.S3Bucket,
		Prefix:   s.S3Prefix,
		Region:   s.S3Region,
		Endpoint: s.S3Endpoint,
	}
}
