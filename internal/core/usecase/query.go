package usecase

import (
	"context"
	"fmt"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// ReadDocumentUseCase is the read model behind the HTTP surface.
type ReadDocumentUseCase struct {
	repo     ports.DocumentRepository
	outcomes ports.OutcomeStore
}

func NewReadDocumentUseCase(repo ports.DocumentRepository, outcomes ports.OutcomeStore) *ReadDocumentUseCase {
	return &ReadDocumentUseCase{repo: repo, outcomes: outcomes}
}

func (uc *ReadDocumentUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ReadDocumentUseCase) OutcomeByID(ctx context.Context, id string) (*domain.ProcessingOutcome, error) {
	outcome, err := uc.outcomes.GetOutcome(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch processing outcome: %w", err)
	}
	return outcome, nil
}
