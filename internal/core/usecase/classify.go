package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// signalWeights maps each signal to its share of the final vote. The weights
// must sum to 1.0; TestVoteWeightsSumToOne pins that down.
var signalWeights = map[string]float64{
	domain.SignalEmbedding: domain.VoteWeightEmbedding,
	domain.SignalVision:    domain.VoteWeightVision,
	domain.SignalKeyword:   domain.VoteWeightKeyword,
}

// Classifier folds independent signal votes with fixed weights.
type Classifier struct {
	signals []ports.ClassificationSignal
	logger  *slog.Logger
}

func NewClassifier(logger *slog.Logger, signals ...ports.ClassificationSignal) *Classifier {
	return &Classifier{signals: signals, logger: logger}
}

// Classify runs every signal against the fused text and combines the votes.
// A failing signal contributes nothing; it never fails the document.
func (c *Classifier) Classify(ctx context.Context, in domain.RunInput, text string) domain.ClassificationResult {
	votes := make([]domain.ClassificationVote, 0, len(c.signals))
	used := make([]string, 0, len(c.signals))

	for _, signal := range c.signals {
		vote, err := signal.Score(ctx, in, text)
		if err != nil {
			c.logger.Warn("classification_signal_failed", "signal", signal.Name(), "error", err)
			continue
		}
		vote.Signal = signal.Name()
		votes = append(votes, vote)
		used = append(used, signal.Name())
	}

	final := combineVotes(votes)
	final.Signals = used
	final.Votes = votes
	return final
}

// combineVotes computes finalConfidence[type] as the weighted sum of each
// signal's per-type score and picks the argmax.
func combineVotes(votes []domain.ClassificationVote) domain.ClassificationResult {
	totals := make(map[domain.DocType]float64, len(domain.KnownDocTypes))

	for _, vote := range votes {
		weight, ok := signalWeights[vote.Signal]
		if !ok {
			continue
		}
		if len(vote.Scores) > 0 {
			for t, score := range vote.Scores {
				totals[t] += weight * score
			}
			continue
		}
		if vote.Predicted != "" && vote.Predicted != domain.DocTypeUnknown {
			totals[vote.Predicted] += weight * vote.Confidence
		}
	}

	var (
		winner     = domain.DocTypeUnknown
		confidence float64
	)
	for _, t := range domain.KnownDocTypes {
		if totals[t] > confidence {
			winner = t
			confidence = totals[t]
		}
	}

	if confidence < domain.ClassificationReviewThreshold {
		return domain.ClassificationResult{
			Type:        domain.DocTypeUnknown,
			Confidence:  confidence,
			NeedsReview: true,
		}
	}
	return domain.ClassificationResult{Type: winner, Confidence: confidence}
}

// ValidateVoteWeights returns an error when the configured weights drift from
// summing to 1.0. Called once at bootstrap.
func ValidateVoteWeights() error {
	sum := 0.0
	for _, w := range signalWeights {
		sum += w
	}
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("classification vote weights sum to %.4f, want 1.0", sum)
	}
	return nil
}
