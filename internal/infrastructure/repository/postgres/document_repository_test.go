package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansDocument(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	created := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "filename", "storage_path", "format", "size_bytes", "status", "error_message", "created_at", "updated_at",
	}).AddRow("doc-1", "bol.pdf", "doc-1_bol.pdf", "pdf", int64(600_000), "uploaded", "", created, created)

	mock.ExpectQuery("SELECT id, filename, storage_path").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusUploaded || doc.Format != "pdf" || doc.SizeBytes != 600_000 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateInsertsDocument(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          "doc-1",
		Filename:    "bol.pdf",
		StoragePath: "doc-1_bol.pdf",
		Format:      "pdf",
		SizeBytes:   600_000,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "bol.pdf", "doc-1_bol.pdf", "pdf", int64(600_000), "uploaded", "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
