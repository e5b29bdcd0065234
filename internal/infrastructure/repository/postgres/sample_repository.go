package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// SampleRepository persists labeled reference embeddings. Embeddings are
// stored as JSON arrays; the library keeps them in memory, so the database
// never answers similarity queries.
type SampleRepository struct {
	db *sql.DB
}

func NewSampleRepository(db *sql.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

func (r *SampleRepository) ListSamples(ctx context.Context) ([]ports.ReferenceSample, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT label, doc_type, embedding
FROM reference_samples
ORDER BY label
`)
	if err != nil {
		return nil, fmt.Errorf("query reference samples: %w", err)
	}
	defer rows.Close()

	var out []ports.ReferenceSample
	for rows.Next() {
		var sample ports.ReferenceSample
		var docType string
		var embedding []byte
		if err := rows.Scan(&sample.Label, &docType, &embedding); err != nil {
			return nil, fmt.Errorf("scan reference sample: %w", err)
		}
		if err := json.Unmarshal(embedding, &sample.Embedding); err != nil {
			return nil, fmt.Errorf("unmarshal embedding for %q: %w", sample.Label, err)
		}
		sample.Type = domain.DocType(docType)
		out = append(out, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference samples: %w", err)
	}
	return out, nil
}

func (r *SampleRepository) SaveSamples(ctx context.Context, samples []ports.ReferenceSample) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin samples tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, sample := range samples {
		embedding, err := json.Marshal(sample.Embedding)
		if err != nil {
			return fmt.Errorf("marshal embedding for %q: %w", sample.Label, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO reference_samples (label, doc_type, embedding, created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (label) DO UPDATE SET doc_type = EXCLUDED.doc_type, embedding = EXCLUDED.embedding
`, sample.Label, string(sample.Type), embedding, now); err != nil {
			return fmt.Errorf("upsert reference sample %q: %w", sample.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit samples tx: %w", err)
	}
	return nil
}
