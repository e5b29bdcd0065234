package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type repoFake struct {
	doc         *domain.Document
	getErr      error
	statusCalls []statusCall
	created     []*domain.Document
	createErr   error
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, doc)
	return nil
}

func (f *repoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	return nil
}

type storageFake struct {
	data    []byte
	openErr error
	saved   map[string][]byte
	saveErr error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	b, _ := io.ReadAll(data)
	f.saved[key] = b
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type outcomeStoreFake struct {
	saved   []domain.ProcessingOutcome
	saveErr error
}

func (f *outcomeStoreFake) SaveOutcome(_ context.Context, outcome domain.ProcessingOutcome) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, outcome)
	return nil
}

func (f *outcomeStoreFake) GetOutcome(context.Context, string) (*domain.ProcessingOutcome, error) {
	if len(f.saved) == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	out := f.saved[len(f.saved)-1]
	return &out, nil
}

func (f *outcomeStoreFake) ListNeedingReview(context.Context, int) ([]domain.ProcessingOutcome, error) {
	return f.saved, nil
}

func newProcessFixture(t *testing.T) (*ProcessDocumentUseCase, *repoFake, *outcomeStoreFake, *pipelineFixture) {
	t.Helper()
	pf := newPipelineFixture(newBOLClassifier())
	repo := &repoFake{doc: &domain.Document{
		ID:          "doc-1",
		Filename:    "bol.pdf",
		StoragePath: "doc-1_bol.pdf",
		Format:      "pdf",
		SizeBytes:   600 << 10,
		Status:      domain.StatusUploaded,
	}}
	storage := &storageFake{data: []byte(sampleBOLText)}
	outcomes := &outcomeStoreFake{}
	uc := NewProcessDocumentUseCase(repo, storage, outcomes, pf.pipeline)
	return uc, repo, outcomes, pf
}

func TestProcessByIDSuccess(t *testing.T) {
	uc, repo, outcomes, _ := newProcessFixture(t)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatal(err)
	}

	if len(outcomes.saved) != 1 {
		t.Fatalf("outcomes saved = %d, want exactly one atomic write", len(outcomes.saved))
	}
	if outcomes.saved[0].Verdict.Status != domain.VerdictPass {
		t.Errorf("saved verdict = %q, want pass", outcomes.saved[0].Verdict.Status)
	}

	if len(repo.statusCalls) != 2 {
		t.Fatalf("status calls = %+v, want processing then processed", repo.statusCalls)
	}
	if repo.statusCalls[0].status != domain.StatusProcessing {
		t.Errorf("first status = %q, want processing", repo.statusCalls[0].status)
	}
	if repo.statusCalls[1].status != domain.StatusProcessed {
		t.Errorf("final status = %q, want processed", repo.statusCalls[1].status)
	}
}

func TestProcessByIDQualityRejectedEndsInReview(t *testing.T) {
	uc, repo, outcomes, pf := newProcessFixture(t)
	pf.assessor.report = domain.QualityReport{Composite: 30, BlurScore: 10, Blurry: true}

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatal(err)
	}

	if len(outcomes.saved) != 1 || !outcomes.saved[0].QualityRejected {
		t.Fatalf("saved outcomes = %+v, want one quality-rejected record", outcomes.saved)
	}
	final := repo.statusCalls[len(repo.statusCalls)-1]
	if final.status != domain.StatusNeedsReview {
		t.Fatalf("final status = %q, want needs_review", final.status)
	}
	if final.errMsg == "" {
		t.Error("review transition must carry the human-readable explanation")
	}
}

func TestProcessByIDFailedVerdictEndsFailed(t *testing.T) {
	uc, repo, _, pf := newProcessFixture(t)
	pf.analyzer.sigs = domain.SignatureInfo{Count: 1}

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatal(err)
	}

	final := repo.statusCalls[len(repo.statusCalls)-1]
	if final.status != domain.StatusFailed {
		t.Fatalf("final status = %q, want failed for a hard rule failure", final.status)
	}
}

func TestProcessByIDMissingDocumentMarksFailed(t *testing.T) {
	uc, repo, outcomes, _ := newProcessFixture(t)
	repo.getErr = domain.ErrDocumentNotFound

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatal("want an error for a missing document")
	}
	if len(outcomes.saved) != 0 {
		t.Error("no outcome may be written for a document that never loaded")
	}
	final := repo.statusCalls[len(repo.statusCalls)-1]
	if final.status != domain.StatusFailed {
		t.Errorf("final status = %q, want failed", final.status)
	}
}

func TestProcessByIDSaveFailureMarksFailed(t *testing.T) {
	uc, repo, outcomes, _ := newProcessFixture(t)
	outcomes.saveErr = errors.New("db down")

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatal("want the persistence error surfaced")
	}
	final := repo.statusCalls[len(repo.statusCalls)-1]
	if final.status != domain.StatusFailed {
		t.Errorf("final status = %q, want failed", final.status)
	}
}
