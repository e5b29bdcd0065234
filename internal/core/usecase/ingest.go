package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename, format string,
	size int64,
	body io.Reader,
) (*domain.Document, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		Filename:    filename,
		Format:      format,
		SizeBytes:   size,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.bin"
	}
	return base
}
