package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestUploadHappyPath(t *testing.T) {
	repo := &repoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "my bol.pdf", "pdf", 1024, strings.NewReader("data"))
	if err != nil {
		t.Fatal(err)
	}

	if doc.ID == "" {
		t.Fatal("document must get an id")
	}
	if doc.Status != domain.StatusUploaded {
		t.Errorf("status = %q, want uploaded", doc.Status)
	}
	if doc.Format != "pdf" || doc.SizeBytes != 1024 {
		t.Errorf("doc = %+v, metadata not carried", doc)
	}
	if !strings.HasSuffix(doc.StoragePath, "_my_bol.pdf") {
		t.Errorf("storage path %q, want the sanitized filename suffix", doc.StoragePath)
	}
	if _, ok := storage.saved[doc.StoragePath]; !ok {
		t.Error("body was not written to object storage")
	}
	if len(repo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(repo.created))
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Errorf("published = %v, want the new document id", queue.published)
	}
}

func TestUploadStorageFailureStopsEverything(t *testing.T) {
	repo := &repoFake{}
	storage := &storageFake{saveErr: errors.New("disk full")}
	uc := NewIngestDocumentUseCase(repo, storage, &queueFake{})

	_, err := uc.Upload(context.Background(), "bol.pdf", "pdf", 10, strings.NewReader("data"))
	if err == nil {
		t.Fatal("want the storage error surfaced")
	}
	if len(repo.created) != 0 {
		t.Error("no metadata may be created when storage failed")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"scan (1).jpg", "scan__1_.jpg"},
		{"../../etc/passwd", "passwd"},
		{"", "document.bin"},
		{"already_fine-1.pdf", "already_fine-1.pdf"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
