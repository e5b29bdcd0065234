package domain

type VerdictStatus string

const (
	VerdictPass             VerdictStatus = "pass"
	VerdictPassWithWarnings VerdictStatus = "pass_with_warnings"
	VerdictFail             VerdictStatus = "fail"
	VerdictNeedsReview      VerdictStatus = "needs_review"
)

type RuleSeverity string

const (
	SeverityHard RuleSeverity = "hard"
	SeveritySoft RuleSeverity = "soft"
)

// RuleFinding records one failed or warned rule with its specific reason.
type RuleFinding struct {
	RuleID string `json:"rule_id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ValidationVerdict is the rule engine's final word on a document.
// Invariant: Status is Fail iff HardFailures is non-empty; PassWithWarnings
// iff HardFailures is empty and SoftWarnings is non-empty; otherwise Pass.
type ValidationVerdict struct {
	Status       VerdictStatus `json:"status"`
	HardFailures []RuleFinding `json:"hard_failures,omitempty"`
	SoftWarnings []RuleFinding `json:"soft_warnings,omitempty"`
	PassedRules  []string      `json:"passed_rules,omitempty"`
	TotalChecked int           `json:"total_checked"`
	Score        float64       `json:"score"`
	BillingReady bool          `json:"billing_ready"`
	Summary      string        `json:"summary"`
}

// VerdictFor applies the status invariant.
func VerdictFor(hard, soft []RuleFinding) VerdictStatus {
	switch {
	case len(hard) > 0:
		return VerdictFail
	case len(soft) > 0:
		return VerdictPassWithWarnings
	default:
		return VerdictPass
	}
}
