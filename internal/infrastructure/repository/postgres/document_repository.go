package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (id, filename, storage_path, format, size_bytes, status, error_message, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		doc.ID, doc.Filename, doc.StoragePath, doc.Format, doc.SizeBytes,
		string(doc.Status), doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, storage_path, format, size_bytes, status, error_message, created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var status string

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.StoragePath, &doc.Format, &doc.SizeBytes,
		&status, &doc.Error, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document status rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document status", fmt.Errorf("id %s", id))
	}
	return nil
}
