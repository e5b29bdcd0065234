package domain

import (
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded    DocumentStatus = "uploaded"
	StatusProcessing  DocumentStatus = "processing"
	StatusProcessed   DocumentStatus = "processed"
	StatusNeedsReview DocumentStatus = "needs_review"
	StatusFailed      DocumentStatus = "failed"
)

// Document is one physical file under processing. It is owned exclusively by a
// single pipeline run for the duration of that run.
type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	StoragePath string         `json:"storage_path"`
	Format      string         `json:"format"`
	SizeBytes   int64          `json:"size_bytes"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// FileMeta is the subset of document attributes the strategy agent needs.
type FileMeta struct {
	Format    string
	SizeBytes int64
}

// IsPageDescriptionFormat reports whether the declared format carries a text
// layer of its own (PDF) rather than raster pixels.
func IsPageDescriptionFormat(format string) bool {
	return normalizeFormat(format) == "pdf"
}

// IsRasterPhotoFormat reports whether the declared format is a camera/scan
// raster image.
func IsRasterPhotoFormat(format string) bool {
	switch normalizeFormat(format) {
	case "jpg", "jpeg", "png", "tiff", "tif":
		return true
	default:
		return false
	}
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}
