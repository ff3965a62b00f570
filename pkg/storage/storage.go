// Package storage persists case report files behind a backend-neutral
// interface. Reports are written once by the analysis pipeline and read by
// clients and accepting lawyers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"advoga/config"

	"github.com/google/uuid"
)

type Storage interface {
	// Upload stores a report and returns its storage path.
	Upload(ctx context.Context, caseRef uuid.UUID, filename string, data io.Reader) (string, error)
	// Download retrieves a report by storage path.
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	// Delete removes a report by storage path.
	Delete(ctx context.Context, storagePath string) error
}

func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg.LocalPath)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for s3 storage")
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// objectPath shards by the first two uuid chars so one directory/prefix never
// collects every report.
func objectPath(caseRef uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(base)
	id := caseRef.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, base, ext)
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
