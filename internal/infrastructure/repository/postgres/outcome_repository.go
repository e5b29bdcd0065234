package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// OutcomeRepository keeps the full run outcome as one JSONB payload plus a
// few promoted columns for filtering. One row per document, written once.
type OutcomeRepository struct {
	db *sql.DB
}

func NewOutcomeRepository(db *sql.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

func (r *OutcomeRepository) SaveOutcome(ctx context.Context, outcome domain.ProcessingOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	// Reprocessing a document replaces its previous outcome atomically.
	_, err = r.db.ExecContext(ctx, `
INSERT INTO processing_outcomes (
	document_id, doc_type, verdict_status, billing_ready, quality_rejected, degraded,
	composite_quality, payload, started_at, elapsed_ms, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (document_id) DO UPDATE SET
	doc_type = EXCLUDED.doc_type,
	verdict_status = EXCLUDED.verdict_status,
	billing_ready = EXCLUDED.billing_ready,
	quality_rejected = EXCLUDED.quality_rejected,
	degraded = EXCLUDED.degraded,
	composite_quality = EXCLUDED.composite_quality,
	payload = EXCLUDED.payload,
	started_at = EXCLUDED.started_at,
	elapsed_ms = EXCLUDED.elapsed_ms,
	created_at = EXCLUDED.created_at
`,
		outcome.DocumentID, string(outcome.Classification.Type), string(outcome.Verdict.Status),
		outcome.Verdict.BillingReady, outcome.QualityRejected, outcome.Text.Degraded,
		outcome.Quality.Composite, payload, outcome.StartedAt, outcome.Elapsed.Milliseconds(),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

func (r *OutcomeRepository) GetOutcome(ctx context.Context, documentID string) (*domain.ProcessingOutcome, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT payload
FROM processing_outcomes
WHERE document_id = $1
`, documentID)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get outcome", fmt.Errorf("document %s", documentID))
		}
		return nil, fmt.Errorf("scan outcome: %w", err)
	}

	var outcome domain.ProcessingOutcome
	if err := json.Unmarshal(payload, &outcome); err != nil {
		return nil, fmt.Errorf("unmarshal outcome: %w", err)
	}
	return &outcome, nil
}

func (r *OutcomeRepository) ListNeedingReview(ctx context.Context, limit int) ([]domain.ProcessingOutcome, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT payload
FROM processing_outcomes
WHERE verdict_status = $1
ORDER BY created_at DESC
LIMIT $2
`, string(domain.VerdictNeedsReview), limit)
	if err != nil {
		return nil, fmt.Errorf("query outcomes needing review: %w", err)
	}
	defer rows.Close()

	var out []domain.ProcessingOutcome
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan outcome row: %w", err)
		}
		var outcome domain.ProcessingOutcome
		if err := json.Unmarshal(payload, &outcome); err != nil {
			return nil, fmt.Errorf("unmarshal outcome row: %w", err)
		}
		out = append(out, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}
