package classify

import (
	"context"
	"fmt"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// VisionSignal adapts the vision-AI capability into a classification signal.
type VisionSignal struct {
	analyzer ports.VisionAnalyzer
}

func NewVisionSignal(analyzer ports.VisionAnalyzer) *VisionSignal {
	return &VisionSignal{analyzer: analyzer}
}

func (s *VisionSignal) Name() string { return domain.SignalVision }

func (s *VisionSignal) Score(ctx context.Context, in domain.RunInput, text string) (domain.ClassificationVote, error) {
	vote, err := s.analyzer.Classify(ctx, in, text)
	if err != nil {
		return domain.ClassificationVote{}, fmt.Errorf("vision classification: %w", err)
	}
	vote.Signal = domain.SignalVision
	return vote, nil
}
