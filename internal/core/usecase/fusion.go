package usecase

import (
	"strings"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// fuseResults merges one or two provider results into the single text the
// rest of the pipeline works on. With two results the higher-confidence text
// wins as the base and field-hint gaps are filled from the other; with one
// result the fused text is that result's text verbatim.
func fuseResults(results []domain.ExtractionResult) domain.FusedText {
	switch len(results) {
	case 0:
		return domain.FusedText{}
	case 1:
		r := results[0]
		return domain.FusedText{
			Text:       r.Text,
			Confidence: r.Confidence,
			Providers:  []string{r.Provider},
			FieldHints: r.FieldHints,
			Signatures: r.Signatures,
		}
	}

	base, other := results[0], results[1]
	if other.Confidence > base.Confidence {
		base, other = other, base
	}

	hints := make(map[string]string, len(base.FieldHints)+len(other.FieldHints))
	for k, v := range base.FieldHints {
		hints[k] = v
	}
	for k, v := range other.FieldHints {
		if strings.TrimSpace(hints[k]) == "" {
			hints[k] = v
		}
	}

	signatures := base.Signatures
	if signatures == nil {
		signatures = other.Signatures
	}

	return domain.FusedText{
		Text:       base.Text,
		Confidence: base.Confidence,
		Providers:  []string{base.Provider, other.Provider},
		FieldHints: hints,
		Signatures: signatures,
	}
}
