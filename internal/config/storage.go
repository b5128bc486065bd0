package config

import (
	"os"
	"sync"
)

type StorageConfig struct {
	BaseDir string
	Bucket  string
}

var (
	storageConfig *StorageConfig
	storageOnce   sync.Once
)

func LoadStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		baseDir := os.Getenv("STORAGE_DIR")
		if baseDir == "" {
			baseDir = "./blobs"
		}
		bucket := os.Getenv("STORAGE_BUCKET")
		if bucket == "" {
			bucket = "attachments"
		}
		storageConfig = &StorageConfig{
			BaseDir: baseDir,
			Bucket:  bucket,
		}
	})
	return storageConfig
}
