package domain

import "fmt"

// Provider names used in provenance tags and error reporting.
const (
	ProviderLocalOCR = "local-ocr"
	ProviderVision   = "vision-ai"
)

// ExtractionResult is one provider's view of the document text.
type ExtractionResult struct {
	Provider   string            `json:"provider"`
	Text       string            `json:"text"`
	Confidence float64           `json:"confidence"`
	FieldHints map[string]string `json:"field_hints,omitempty"`
	Signatures *SignatureInfo    `json:"signatures,omitempty"`
}

// FusedText is the single text the rest of the pipeline works on, with a
// provenance tag per contributing provider.
type FusedText struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Providers  []string `json:"providers"`
	// Degraded marks a run where a planned provider failed after retries and
	// the pipeline continued on the remaining text.
	Degraded   bool              `json:"degraded"`
	FieldHints map[string]string `json:"field_hints,omitempty"`
	Signatures *SignatureInfo    `json:"-"`
}

// ExtractionError is the typed result of a provider whose retries were
// exhausted. It degrades the run; it never aborts it.
type ExtractionError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed after %d attempts: %v", e.Provider, e.Attempts, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
