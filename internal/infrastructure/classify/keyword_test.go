package classify

import (
	"context"
	"testing"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

func TestKeywordSignalMatchesBOL(t *testing.T) {
	s := NewKeywordSignal()
	text := `BILL OF LADING
Shipper: Acme Goods Inc
Consignee: Harbor Retail LLC
Port of Loading: Chicago
Freight Prepaid`

	vote, err := s.Score(context.Background(), domain.RunInput{}, text)
	if err != nil {
		t.Fatal(err)
	}
	if vote.Predicted != domain.DocTypeBillOfLading {
		t.Fatalf("predicted = %q, want bill_of_lading (scores: %v)", vote.Predicted, vote.Scores)
	}
	if vote.Confidence <= 0.5 {
		t.Errorf("confidence = %v, unambiguous terms must dominate", vote.Confidence)
	}
	if vote.Rationale == "" {
		t.Error("rationale must list the matched terms")
	}
}

func TestKeywordSignalSingleMatchIsNoise(t *testing.T) {
	s := NewKeywordSignal()

	// One isolated indicator term must not produce a vote.
	vote, err := s.Score(context.Background(), domain.RunInput{}, "the vessel sailed away")
	if err != nil {
		t.Fatal(err)
	}
	if vote.Predicted != domain.DocTypeUnknown {
		t.Fatalf("predicted = %q, a single match must read as unknown", vote.Predicted)
	}
	if len(vote.Scores) != 0 {
		t.Errorf("scores = %v, want none", vote.Scores)
	}
}

func TestKeywordSignalWordBoundaries(t *testing.T) {
	s := NewKeywordSignal()

	// "pod" must not match inside other words.
	vote, err := s.Score(context.Background(), domain.RunInput{}, "tripod podium podcast lumperpod")
	if err != nil {
		t.Fatal(err)
	}
	if vote.Predicted != domain.DocTypeUnknown {
		t.Fatalf("predicted = %q, substrings must not count", vote.Predicted)
	}
}

func TestKeywordSignalPunctuatedTerms(t *testing.T) {
	s := NewKeywordSignal()
	text := "PRO# 12345 fuel surcharge linehaul accessorial"

	vote, err := s.Score(context.Background(), domain.RunInput{}, text)
	if err != nil {
		t.Fatal(err)
	}
	if vote.Predicted != domain.DocTypeFreightInvoice {
		t.Fatalf("predicted = %q, want freight_invoice (scores: %v)", vote.Predicted, vote.Scores)
	}
}

func TestKeywordSignalCaseInsensitive(t *testing.T) {
	s := NewKeywordSignal()

	upper, _ := s.Score(context.Background(), domain.RunInput{}, "LUMPER RECEIPT FOR UNLOADING AT WAREHOUSE, LUMPER FEE $150")
	lower, _ := s.Score(context.Background(), domain.RunInput{}, "lumper receipt for unloading at warehouse, lumper fee $150")

	if upper.Predicted != domain.DocTypeLumperReceipt || lower.Predicted != domain.DocTypeLumperReceipt {
		t.Fatalf("upper = %q lower = %q, want lumper_receipt for both", upper.Predicted, lower.Predicted)
	}
	if upper.Confidence != lower.Confidence {
		t.Errorf("case must not change the score: %v vs %v", upper.Confidence, lower.Confidence)
	}
}
