package usecase

import (
	"fmt"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// Strategy heuristic thresholds.
const (
	fastTrackMinBytes    = 2 << 20  // 2MB
	qualityFirstMaxBytes = 500 << 10 // 500KB

	fastTrackQualityHint = 85.0
	dualQualityHint      = 60.0

	// Second-pass thresholds over the local provider's result.
	secondPassSkipConfidence     = 0.85
	secondPassSkipChars          = 500
	secondPassSkipHighConfidence = 0.90
	secondPassSkipHighChars      = 200
	secondPassForceConfidence    = 0.70
	secondPassForceChars         = 100
)

// StrategyAgent is a stateless heuristic policy. Both decisions are pure
// local computation; neither ever makes a network call.
type StrategyAgent struct{}

func NewStrategyAgent() *StrategyAgent { return &StrategyAgent{} }

// Decide picks the processing strategy for a document. Heuristics are
// evaluated in priority order; the first match wins.
func (a *StrategyAgent) Decide(meta domain.FileMeta, qualityHint *float64) domain.ProcessingStrategy {
	sizeKB := float64(meta.SizeBytes) / 1024
	sizeMB := sizeKB / 1024

	switch {
	case meta.SizeBytes > fastTrackMinBytes && domain.IsPageDescriptionFormat(meta.Format):
		return domain.ProcessingStrategy{
			Kind:              domain.StrategyFast,
			RunVision:         true,
			QualityGateFirst:  true,
			EstimatedSeconds:  2,
			EstimatedAPICalls: 1,
			Rationale:         fmt.Sprintf("large PDF (%.1f MB) likely has clear digital text; skip local OCR", sizeMB),
		}
	case meta.SizeBytes < qualityFirstMaxBytes && domain.IsRasterPhotoFormat(meta.Format):
		return domain.ProcessingStrategy{
			Kind:              domain.StrategyQualityFirst,
			RunLocal:          true,
			RunVision:         true,
			QualityGateFirst:  true,
			EstimatedSeconds:  3,
			EstimatedAPICalls: 1,
			Rationale:         fmt.Sprintf("small file (%.1f KB) may be low quality; check quality before extraction", sizeKB),
		}
	case qualityHint != nil && *qualityHint >= fastTrackQualityHint:
		return domain.ProcessingStrategy{
			Kind:              domain.StrategyFast,
			RunVision:         true,
			QualityGateFirst:  true,
			EstimatedSeconds:  2,
			EstimatedAPICalls: 1,
			Rationale:         fmt.Sprintf("high quality score (%.1f); vision provider alone is enough", *qualityHint),
		}
	case qualityHint != nil && *qualityHint <= dualQualityHint:
		return domain.ProcessingStrategy{
			Kind:              domain.StrategyDual,
			RunLocal:          true,
			RunVision:         true,
			QualityGateFirst:  true,
			EstimatedSeconds:  5,
			EstimatedAPICalls: 1,
			Rationale:         fmt.Sprintf("low quality score (%.1f); run both providers and fuse", *qualityHint),
		}
	case domain.IsRasterPhotoFormat(meta.Format):
		return domain.ProcessingStrategy{
			Kind:              domain.StrategyEnhanced,
			RunLocal:          true,
			SecondPassDecides: true,
			QualityGateFirst:  true,
			EstimatedSeconds:  4,
			EstimatedAPICalls: 1,
			Rationale:         fmt.Sprintf("raster photo (%s); local provider first, vision only if needed", meta.Format),
		}
	default:
		return domain.ProcessingStrategy{
			Kind:              domain.StrategyStandard,
			RunLocal:          true,
			RunVision:         true,
			QualityGateFirst:  true,
			EstimatedSeconds:  4,
			EstimatedAPICalls: 1,
			Rationale:         fmt.Sprintf("standard document (%s, %.1f KB); balanced approach", meta.Format, sizeKB),
		}
	}
}

// OptimizeSecondPass decides, under the enhanced strategy, whether the vision
// provider is still needed after the local result is in.
func (a *StrategyAgent) OptimizeSecondPass(local domain.ExtractionResult) domain.SecondPassDecision {
	chars := len(local.Text)

	switch {
	case local.Confidence < secondPassForceConfidence:
		return domain.SecondPassDecision{
			Reason: fmt.Sprintf("local confidence low (%.0f%%); vision provider needed for accuracy", local.Confidence*100),
		}
	case chars < secondPassForceChars:
		return domain.SecondPassDecision{
			Reason: fmt.Sprintf("local provider found only %d chars; vision provider needed for completeness", chars),
		}
	case local.Confidence >= secondPassSkipConfidence && chars >= secondPassSkipChars:
		return domain.SecondPassDecision{
			SkipVision: true,
			Reason:     fmt.Sprintf("local confidence high (%.0f%%) with %d chars; vision provider not needed", local.Confidence*100, chars),
		}
	case local.Confidence >= secondPassSkipHighConfidence && chars >= secondPassSkipHighChars:
		return domain.SecondPassDecision{
			SkipVision: true,
			Reason:     fmt.Sprintf("local confidence very high (%.0f%%); sufficient quality", local.Confidence*100),
		}
	default:
		return domain.SecondPassDecision{
			Reason: fmt.Sprintf("local result acceptable (%.0f%%, %d chars) but vision provider will improve accuracy", local.Confidence*100, chars),
		}
	}
}
