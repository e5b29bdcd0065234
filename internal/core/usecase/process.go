package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// ProcessDocumentUseCase drives one pipeline run for a stored document and
// persists the result: a single atomic outcome write plus the final status
// transition.
type ProcessDocumentUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	outcomes ports.OutcomeStore
	pipeline *Pipeline
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	outcomes ports.OutcomeStore,
	pipeline *Pipeline,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:     repo,
		storage:  storage,
		outcomes: outcomes,
		pipeline: pipeline,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	outcome, err := uc.runPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persistOutcome(ctx, outcome); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, outcome.FinalStatus(), outcome.Verdict.Summary); err != nil {
		return fmt.Errorf("set final status: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, documentID string) (*domain.ProcessingOutcome, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	data, err := uc.readDocument(ctx, doc.StoragePath)
	if err != nil {
		return nil, err
	}

	outcome, err := uc.pipeline.Run(ctx, domain.RunInput{
		DocumentID: doc.ID,
		Data:       data,
		Format:     doc.Format,
		SizeBytes:  int64(len(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("run pipeline: %w", err)
	}
	return outcome, nil
}

func (uc *ProcessDocumentUseCase) readDocument(ctx context.Context, storagePath string) ([]byte, error) {
	rc, err := uc.storage.Open(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read stored document: %w", err)
	}
	return data, nil
}

func (uc *ProcessDocumentUseCase) persistOutcome(ctx context.Context, outcome *domain.ProcessingOutcome) error {
	if err := uc.outcomes.SaveOutcome(ctx, *outcome); err != nil {
		return fmt.Errorf("save processing outcome: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
