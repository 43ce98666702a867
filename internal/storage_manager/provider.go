// Package storage_manager gives the storefront a single way to reach catalog
// documents, whether they live in a local directory or an S3 bucket.
package storage_manager //nolint:revive // var-naming: using underscores for domain clarity

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("object not found")

// FileProvider reads and writes documents addressed by slash-separated paths.
type FileProvider interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
	// List returns the paths under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// LocalFileProvider serves documents from a directory tree.
type LocalFileProvider struct {
	baseDir string
}

// NewLocalFileProvider creates a provider rooted at baseDir.
func NewLocalFileProvider(baseDir string) *LocalFileProvider {
	return &LocalFileProvider{baseDir: baseDir}
}

// resolve joins path onto the base directory, refusing paths that escape it.
func (p *LocalFileProvider) resolve(path string) (string, error) {
	full := filepath.Join(p.baseDir, filepath.FromSlash(path))
	rel, err := filepath.Rel(p.baseDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage root", path)
	}
	return full, nil
}

func (p *LocalFileProvider) Read(_ context.Context, path string) ([]byte, error) {
	full, err := p.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full) //nolint:gosec // G304: confined to baseDir by resolve
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return data, err
}

func (p *LocalFileProvider) Write(_ context.Context, path string, data []byte) error {
	full, err := p.resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return os.WriteFile(full, data, 0o600)
}

func (p *LocalFileProvider) Exists(_ context.Context, path string) (bool, error) {
	full, err := p.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (p *LocalFileProvider) List(_ context.Context, prefix string) ([]string, error) {
	root, err := p.resolve(prefix)
	if err != nil {
		return nil, err
	}

	result := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(p.baseDir, path)
		if err != nil {
			return err
		}
		result = append(result, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(result)
	return result, nil
}

// S3FileProvider serves documents from a bucket, optionally under a key prefix.
type S3FileProvider struct {
	bucket   string
	prefix   string
	s3Client S3Client
}

// NewS3FileProvider creates a new S3 file provider.
func NewS3FileProvider(bucket, prefix string, s3Client S3Client) *S3FileProvider {
	return &S3FileProvider{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		s3Client: s3Client,
	}
}

func (p *S3FileProvider) Read(ctx context.Context, path string) ([]byte, error) {
	return p.s3Client.GetObject(ctx, p.bucket, p.key(path))
}

func (p *S3FileProvider) Write(ctx context.Context, path string, data []byte) error {
	return p.s3Client.PutObject(ctx, p.bucket, p.key(path), data)
}

// Exists treats ErrNotFound as absence and propagates every other error.
func (p *S3FileProvider) Exists(ctx context.Context, path string) (bool, error) {
	err := p.s3Client.HeadObject(ctx, p.bucket, p.key(path))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (p *S3FileProvider) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := p.s3Client.ListObjects(ctx, p.bucket, p.key(prefix))
	if err != nil {
		return nil, err
	}

	root := p.key("")
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		if rel, ok := strings.CutPrefix(key, root); ok && rel != "" {
			result = append(result, rel)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (p *S3FileProvider) key(path string) string {
	path = strings.TrimPrefix(path, "/")
	if p.prefix == "" {
		return path
	}
	return p.prefix + "/" + path
}

// PrefixedFileProvider scopes another provider to a sub-directory.
type PrefixedFileProvider struct {
	provider FileProvider
	prefix   string
}

// NewPrefixedFileProvider creates a new prefixed file provider.
func NewPrefixedFileProvider(provider FileProvider, prefix string) *PrefixedFileProvider {
	return &PrefixedFileProvider{provider: provider, prefix: strings.Trim(prefix, "/")}
}

func (p *PrefixedFileProvider) Read(ctx context.Context, path string) ([]byte, error) {
	return p.provider.Read(ctx, p.prefixPath(path))
}

func (p *PrefixedFileProvider) Write(ctx context.Context, path string, data []byte) error {
	return p.provider.Write(ctx, p.prefixPath(path), data)
}

func (p *PrefixedFileProvider) Exists(ctx context.Context, path string) (bool, error) {
	return p.provider.Exists(ctx, p.prefixPath(path))
}

func (p *PrefixedFileProvider) List(ctx context.Context, prefix string) ([]string, error) {
	files, err := p.provider.List(ctx, p.prefixPath(prefix))
	if err != nil {
		return nil, err
	}

	root := p.prefixPath("")
	result := make([]string, 0, len(files))
	for _, file := range files {
		result = append(result, strings.TrimPrefix(file, root))
	}
	return result, nil
}

func (p *PrefixedFileProvider) prefixPath(path string) string {
	if p.prefix == "" {
		return path
	}
	return p.prefix + "/" + path
}
