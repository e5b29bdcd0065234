package ports

import (
	"context"
	"io"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, format string, size int64, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous pipeline runs.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document state and outcomes.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	OutcomeByID(ctx context.Context, id string) (*domain.ProcessingOutcome, error)
}
