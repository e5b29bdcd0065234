package domain

import "time"

// ProcessingOutcome is the terminal aggregate of one pipeline run and the
// only object handed back to external collaborators. Immutable once produced.
type ProcessingOutcome struct {
	DocumentID string `json:"document_id"`

	Strategy       ProcessingStrategy   `json:"strategy"`
	Quality        QualityReport        `json:"quality"`
	Text           FusedText            `json:"text"`
	Classification ClassificationResult `json:"classification"`
	Signatures     SignatureInfo        `json:"signatures"`
	Fields         ExtractedFields      `json:"fields"`
	Verdict        ValidationVerdict    `json:"verdict"`

	// Promoted reference fields. Validation and downstream search depend on
	// them directly; absence propagates as absence, never as a placeholder.
	OrderNumber   FieldValue `json:"order_number"`
	InvoiceNumber FieldValue `json:"invoice_number"`
	DocumentDate  FieldValue `json:"document_date"`

	// QualityRejected marks a run the gate stopped before extraction.
	QualityRejected bool             `json:"quality_rejected"`
	Feedback        *QualityFeedback `json:"feedback,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// FinalStatus maps the outcome back onto the document lifecycle.
func (o ProcessingOutcome) FinalStatus() DocumentStatus {
	switch o.Verdict.Status {
	case VerdictNeedsReview:
		return StatusNeedsReview
	case VerdictFail:
		return StatusFailed
	default:
		return StatusProcessed
	}
}
