package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stadtlabs/konzeptvergabe/internal/config"
)

// BlobStore holds attachment bytes keyed by generated ids. The
// relational transaction never covers it; callers order blob writes
// before metadata writes and compensate with Delete on failure.
type BlobStore interface {
	Upload(key, contentType string, r io.Reader) error
	Download(key string) (io.ReadCloser, error)
	Copy(srcKey, dstKey string) error
	Delete(key string) error
}

// DiskStorage is the local implementation: one directory per bucket,
// one file per key. The bucket is provisioned on first use.
type DiskStorage struct {
	baseDir string
	bucket  string
}

func NewDiskStorage() *DiskStorage {
	cfg := config.LoadStorageConfig()
	return &DiskStorage{baseDir: cfg.BaseDir, bucket: cfg.Bucket}
}

func NewDiskStorageAt(baseDir, bucket string) *DiskStorage {
	return &DiskStorage{baseDir: baseDir, bucket: bucket}
}

func (s *DiskStorage) ensureBucket() (string, error) {
	dir := filepath.Join(s.baseDir, s.bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("provision bucket %s: %w", s.bucket, err)
	}
	return dir, nil
}

func (s *DiskStorage) path(key string) (string, error) {
	dir, err := s.ensureBucket()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, key), nil
}

func (s *DiskStorage) Upload(key, contentType string, r io.Reader) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create blob %s: %w", key, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return nil
}

func (s *DiskStorage) Download(key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return f, nil
}

func (s *DiskStorage) Copy(srcKey, dstKey string) error {
	src, err := s.Download(srcKey)
	if err != nil {
		return err
	}
	defer src.Close()
	return s.Upload(dstKey, "", src)
}

func (s *DiskStorage) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
