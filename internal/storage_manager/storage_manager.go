package storage_manager //nolint:revive // var-naming: using underscores for domain clarity

import (
	"context"
	"fmt"
)

// BackendType names a storage backend.
type BackendType string

const (
	BackendLocal BackendType = "local"
	BackendS3    BackendType = "s3"
)

// Config selects and configures the backend.
type Config struct {
	Backend BackendType

	// BaseDir is the root directory of the local backend.
	BaseDir string

	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	// Client overrides the SDK client built from Region and Endpoint.
	Client S3Client
}

// StorageManager hands out namespace-scoped providers over one backend.
type StorageManager struct {
	backend  BackendType
	provider FileProvider
}

// New builds the backend described by cfg.
func New(ctx context.Context, cfg Config) (*StorageManager, error) {
	var provider FileProvider

	switch cfg.Backend {
	case BackendLocal, "":
		if cfg.BaseDir == "" {
			return nil, fmt.Errorf("base directory is required for local backend")
		}
		provider = NewLocalFileProvider(cfg.BaseDir)
		cfg.Backend = BackendLocal

	case BackendS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("bucket is required for s3 backend")
		}
		client := cfg.Client
		if client == nil {
			sdk, err := NewS3ClientFromEnv(ctx, cfg.Region, cfg.Endpoint)
			if err != nil {
				return nil, err
			}
			client = NewAWSS3Client(sdk)
		}
		provider = NewS3FileProvider(cfg.Bucket, cfg.Prefix, client)

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Backend)
	}

	return &StorageManager{backend: cfg.Backend, provider: provider}, nil
}

// NewWithProvider wraps a ready-made provider.
func NewWithProvider(provider FileProvider) *StorageManager {
	return &StorageManager{provider: provider}
}

// GetProvider returns a provider scoped to namespace, or the root provider
// when namespace is empty.
func (m *StorageManager) GetProvider(namespace string) FileProvider {
	if namespace == "" {
		return m.provider
	}
	return NewPrefixedFileProvider(m.provider, namespace)
}

// Backend returns the configured backend type.
func (m *StorageManager) Backend() BackendType {
	return m.backend
}

var _ S3Client = (*AWSS3Client)(nil)
