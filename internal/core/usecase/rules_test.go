package usecase

import (
	"strings"
	"testing"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

func found(v string) domain.FieldValue {
	return domain.FieldValue{Value: v, Status: domain.FieldFound, Source: domain.FieldSourceRegex}
}

func passingBOLOutcome() *domain.ProcessingOutcome {
	fields := map[string]domain.FieldValue{
		"bol_number":   found("BL-1"),
		"shipper":      found("Acme Goods Inc"),
		"consignee":    found("Harbor Retail LLC"),
		"carrier":      found("Best Freight Lines"),
		"ship_date":    found("2025-03-15"),
		"total_weight": found("4,500 lbs"),
	}
	return &domain.ProcessingOutcome{
		DocumentID: "doc-1",
		Quality:    domain.QualityReport{Composite: 82, BlurScore: 80},
		Text:       domain.FusedText{Text: strings.Repeat("freight ", 20)},
		Classification: domain.ClassificationResult{
			Type:       domain.DocTypeBillOfLading,
			Confidence: 0.85,
		},
		Signatures: domain.SignatureInfo{State: domain.SignatureEvaluated, Count: 2},
		Fields: domain.ExtractedFields{
			Type:         domain.DocTypeBillOfLading,
			Fields:       fields,
			Filled:       len(fields),
			Total:        len(bolFields),
			Completeness: float64(len(fields)) / float64(len(bolFields)),
		},
		DocumentDate: found("2025-03-15"),
	}
}

func TestValidateCompleteBOLPasses(t *testing.T) {
	engine := NewRuleEngine(testLogger())
	outcome := passingBOLOutcome()

	v := engine.Validate(outcome)
	if v.Status != domain.VerdictPass {
		t.Fatalf("status = %q, want pass (hard: %+v, soft: %+v)", v.Status, v.HardFailures, v.SoftWarnings)
	}
	if !v.BillingReady {
		t.Error("a passing document must be billing ready")
	}
	if v.Score != 1.0 {
		t.Errorf("score = %v, want 1.0", v.Score)
	}
	if v.TotalChecked != len(generalRules)+len(typeRules[domain.DocTypeBillOfLading]) {
		t.Errorf("checked = %d, want every general and BOL rule", v.TotalChecked)
	}
}

func TestValidateMissingSignatureFailsByName(t *testing.T) {
	engine := NewRuleEngine(testLogger())
	outcome := passingBOLOutcome()
	outcome.Signatures.Count = 1

	v := engine.Validate(outcome)
	if v.Status != domain.VerdictFail {
		t.Fatalf("status = %q, want fail", v.Status)
	}
	if v.BillingReady {
		t.Error("a failed document must not be billing ready")
	}
	if len(v.HardFailures) != 1 || v.HardFailures[0].RuleID != "BOL_001" {
		t.Fatalf("hard failures = %+v, want exactly the signature rule", v.HardFailures)
	}
	if !strings.Contains(v.HardFailures[0].Reason, "1 signature") {
		t.Errorf("reason %q must name the actual count", v.HardFailures[0].Reason)
	}
}

func TestValidateSignatureCheckFailureIsNotZeroSignatures(t *testing.T) {
	engine := NewRuleEngine(testLogger())
	outcome := passingBOLOutcome()
	outcome.Signatures = domain.SignatureInfo{State: domain.SignatureCheckFailed, Error: "timeout"}

	v := engine.Validate(outcome)
	if v.Status != domain.VerdictFail {
		t.Fatalf("status = %q, want fail when the check never ran", v.Status)
	}
	if !strings.Contains(v.HardFailures[0].Reason, "did not run") {
		t.Errorf("reason %q must distinguish a failed check from zero signatures", v.HardFailures[0].Reason)
	}
}

func TestValidateGeneralHardFailureShortCircuits(t *testing.T) {
	engine := NewRuleEngine(testLogger())
	outcome := passingBOLOutcome()
	outcome.Text.Text = "tiny"
	// Remove a hard required field too; it must not be reported because type
	// rules never run after a general hard failure.
	delete(outcome.Fields.Fields, "bol_number")

	v := engine.Validate(outcome)
	if v.Status != domain.VerdictFail {
		t.Fatalf("status = %q, want fail", v.Status)
	}
	if len(v.HardFailures) != 1 || v.HardFailures[0].RuleID != "GEN_003" {
		t.Fatalf("hard failures = %+v, want only the general text rule", v.HardFailures)
	}
	for _, id := range v.PassedRules {
		if strings.HasPrefix(id, "BOL_") {
			t.Fatalf("type rule %s was evaluated after a general hard failure", id)
		}
	}
}

func TestValidateSoftWarningsOnly(t *testing.T) {
	engine := NewRuleEngine(testLogger())
	outcome := passingBOLOutcome()
	delete(outcome.Fields.Fields, "carrier")
	delete(outcome.Fields.Fields, "ship_date")
	outcome.Fields.Filled -= 2
	outcome.Fields.Completeness = float64(outcome.Fields.Filled) / float64(outcome.Fields.Total)

	v := engine.Validate(outcome)
	if v.Status != domain.VerdictPassWithWarnings {
		t.Fatalf("status = %q, want pass_with_warnings (hard: %+v)", v.Status, v.HardFailures)
	}
	if v.BillingReady {
		t.Error("warnings must block billing readiness")
	}
	if len(v.HardFailures) != 0 {
		t.Errorf("hard failures = %+v, want none", v.HardFailures)
	}
	if len(v.SoftWarnings) == 0 {
		t.Error("want at least one soft warning")
	}
}

func TestValidateVerdictInvariant(t *testing.T) {
	finding := []domain.RuleFinding{{RuleID: "X"}}
	tests := []struct {
		hard, soft []domain.RuleFinding
		want       domain.VerdictStatus
	}{
		{finding, finding, domain.VerdictFail},
		{finding, nil, domain.VerdictFail},
		{nil, finding, domain.VerdictPassWithWarnings},
		{nil, nil, domain.VerdictPass},
	}
	for _, tt := range tests {
		if got := domain.VerdictFor(tt.hard, tt.soft); got != tt.want {
			t.Errorf("VerdictFor(hard=%d, soft=%d) = %q, want %q", len(tt.hard), len(tt.soft), got, tt.want)
		}
	}
}

func TestValidateUnknownTypeFailsClassificationRule(t *testing.T) {
	engine := NewRuleEngine(testLogger())
	outcome := passingBOLOutcome()
	outcome.Classification = domain.ClassificationResult{
		Type:        domain.DocTypeUnknown,
		Confidence:  0.3,
		NeedsReview: true,
	}

	v := engine.Validate(outcome)
	if v.Status != domain.VerdictFail {
		t.Fatalf("status = %q, want fail", v.Status)
	}
	if v.HardFailures[0].RuleID != "GEN_004" {
		t.Fatalf("hard failures = %+v, want the classification confidence rule", v.HardFailures)
	}
}
