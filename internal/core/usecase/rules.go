package usecase

import (
	"log/slog"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// rule is a pure predicate over the accumulated outcome. Check returns
// whether the rule passed and, on failure, a specific human-readable reason.
type rule struct {
	ID       string
	Name     string
	Severity domain.RuleSeverity
	Check    func(*domain.ProcessingOutcome) (bool, string)
}

// RuleEngine evaluates general rules first and the classified type's rules
// second. A general hard failure stops evaluation immediately; type rules are
// always evaluated in full so the verdict lists every problem at once.
type RuleEngine struct {
	logger *slog.Logger
}

func NewRuleEngine(logger *slog.Logger) *RuleEngine {
	return &RuleEngine{logger: logger}
}

func (e *RuleEngine) Validate(outcome *domain.ProcessingOutcome) domain.ValidationVerdict {
	var (
		hard   []domain.RuleFinding
		soft   []domain.RuleFinding
		passed []string
	)
	checked := 0

	for _, r := range generalRules {
		checked++
		ok, reason := r.Check(outcome)
		if ok {
			passed = append(passed, r.ID)
			continue
		}
		finding := domain.RuleFinding{RuleID: r.ID, Name: r.Name, Reason: reason}
		if r.Severity == domain.SeverityHard {
			hard = append(hard, finding)
			e.logger.Info("general hard rule failed, skipping type rules",
				"rule", r.ID, "reason", reason)
			return verdictFrom(hard, soft, passed, checked)
		}
		soft = append(soft, finding)
	}

	for _, r := range typeRules[outcome.Classification.Type] {
		checked++
		ok, reason := r.Check(outcome)
		if ok {
			passed = append(passed, r.ID)
			continue
		}
		finding := domain.RuleFinding{RuleID: r.ID, Name: r.Name, Reason: reason}
		if r.Severity == domain.SeverityHard {
			hard = append(hard, finding)
		} else {
			soft = append(soft, finding)
		}
	}

	return verdictFrom(hard, soft, passed, checked)
}

func verdictFrom(hard, soft []domain.RuleFinding, passed []string, checked int) domain.ValidationVerdict {
	v := domain.ValidationVerdict{
		Status:       domain.VerdictFor(hard, soft),
		HardFailures: hard,
		SoftWarnings: soft,
		PassedRules:  passed,
		TotalChecked: checked,
	}
	if checked > 0 {
		v.Score = float64(len(passed)) / float64(checked)
	}
	v.BillingReady = v.Status == domain.VerdictPass
	v.Summary = summarize(v)
	return v
}

func summarize(v domain.ValidationVerdict) string {
	switch v.Status {
	case domain.VerdictPass:
		return "all validation rules passed"
	case domain.VerdictPassWithWarnings:
		return v.SoftWarnings[0].Reason
	default:
		return v.HardFailures[0].Reason
	}
}
