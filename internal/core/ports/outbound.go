package ports

import (
	"context"
	"io"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// TextExtractor is one interchangeable text-extraction provider.
type TextExtractor interface {
	Name() string
	Extract(ctx context.Context, in domain.RunInput) (domain.ExtractionResult, error)
}

// VisionAnalyzer is the vision-AI capability the pipeline consults for
// classification, signature detection and re-capture feedback.
type VisionAnalyzer interface {
	Classify(ctx context.Context, in domain.RunInput, text string) (domain.ClassificationVote, error)
	DetectSignatures(ctx context.Context, in domain.RunInput) (domain.SignatureInfo, error)
	QualityFeedback(ctx context.Context, in domain.RunInput, report domain.QualityReport) (domain.QualityFeedback, error)
}

// Embedder builds vectors for document text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ReferenceSample is one labeled embedding in the sample library.
type ReferenceSample struct {
	Label     string
	Type      domain.DocType
	Embedding []float32
}

// SampleLibrary serves the read-only reference embeddings, loaded once at
// process start and never mutated during request handling.
type SampleLibrary interface {
	SamplesFor(t domain.DocType) []ReferenceSample
	All() []ReferenceSample
}

// ClassificationSignal is one independent scorer contributing a weighted vote.
type ClassificationSignal interface {
	Name() string
	Score(ctx context.Context, in domain.RunInput, text string) (domain.ClassificationVote, error)
}

// QualityAssessor scores an image for blur, skew and brightness.
type QualityAssessor interface {
	Assess(in domain.RunInput) (domain.QualityReport, error)
}

// Notifier surfaces re-capture guidance to the uploader. Fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, documentID string, feedback domain.QualityFeedback) error
}

// OutcomeStore persists the terminal record of a run: one atomic write per
// document.
type OutcomeStore interface {
	SaveOutcome(ctx context.Context, outcome domain.ProcessingOutcome) error
	GetOutcome(ctx context.Context, documentID string) (*domain.ProcessingOutcome, error)
	ListNeedingReview(ctx context.Context, limit int) ([]domain.ProcessingOutcome, error)
}

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes processing events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}
