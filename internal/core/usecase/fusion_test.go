package usecase

import (
	"testing"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

func TestFuseResultsSingleProviderIsVerbatim(t *testing.T) {
	fused := fuseResults([]domain.ExtractionResult{{
		Provider:   domain.ProviderLocalOCR,
		Text:       "BILL OF LADING\nBL No: 12345",
		Confidence: 0.8,
		FieldHints: map[string]string{"bol_number": "12345"},
	}})

	if fused.Text != "BILL OF LADING\nBL No: 12345" {
		t.Fatalf("fused text = %q, want the single result verbatim", fused.Text)
	}
	if fused.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", fused.Confidence)
	}
	if len(fused.Providers) != 1 || fused.Providers[0] != domain.ProviderLocalOCR {
		t.Errorf("providers = %v", fused.Providers)
	}
}

func TestFuseResultsPrefersHigherConfidenceBase(t *testing.T) {
	fused := fuseResults([]domain.ExtractionResult{
		{Provider: domain.ProviderLocalOCR, Text: "garbled", Confidence: 0.4},
		{Provider: domain.ProviderVision, Text: "clean text", Confidence: 0.9},
	})

	if fused.Text != "clean text" {
		t.Fatalf("fused text = %q, want the higher-confidence text", fused.Text)
	}
	if fused.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", fused.Confidence)
	}
	if len(fused.Providers) != 2 {
		t.Errorf("providers = %v, want both", fused.Providers)
	}
}

func TestFuseResultsFillsHintGapsFromOther(t *testing.T) {
	fused := fuseResults([]domain.ExtractionResult{
		{
			Provider:   domain.ProviderVision,
			Text:       "base",
			Confidence: 0.9,
			FieldHints: map[string]string{"bol_number": "BL-1", "shipper": ""},
		},
		{
			Provider:   domain.ProviderLocalOCR,
			Text:       "other",
			Confidence: 0.6,
			FieldHints: map[string]string{"bol_number": "WRONG", "shipper": "Acme Co", "carrier": "Best Freight"},
		},
	})

	if fused.FieldHints["bol_number"] != "BL-1" {
		t.Errorf("base hint was overwritten: %q", fused.FieldHints["bol_number"])
	}
	if fused.FieldHints["shipper"] != "Acme Co" {
		t.Errorf("blank base hint was not filled: %q", fused.FieldHints["shipper"])
	}
	if fused.FieldHints["carrier"] != "Best Freight" {
		t.Errorf("missing base hint was not filled: %q", fused.FieldHints["carrier"])
	}
}

func TestFuseResultsCarriesSignaturesFromEitherSide(t *testing.T) {
	sigs := &domain.SignatureInfo{State: domain.SignatureEvaluated, Count: 2}
	fused := fuseResults([]domain.ExtractionResult{
		{Provider: domain.ProviderVision, Text: "base", Confidence: 0.9},
		{Provider: domain.ProviderLocalOCR, Text: "other", Confidence: 0.5, Signatures: sigs},
	})

	if fused.Signatures == nil || fused.Signatures.Count != 2 {
		t.Fatalf("signatures = %+v, want the other side's detection carried over", fused.Signatures)
	}
}

func TestFuseResultsEmpty(t *testing.T) {
	fused := fuseResults(nil)
	if fused.Text != "" || len(fused.Providers) != 0 {
		t.Fatalf("fused = %+v, want zero value", fused)
	}
}
