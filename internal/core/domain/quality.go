package domain

// Composite quality weighting. The three sub-scores are each 0-100; the
// weights must sum to 1.0.
const (
	QualityWeightBlur       = 0.4
	QualityWeightSkew       = 0.3
	QualityWeightBrightness = 0.3

	// QualityGateThreshold is the composite score below which the
	// orchestrator rejects the document and requests a re-capture.
	QualityGateThreshold = 55.0
)

type Readability string

const (
	ReadabilityClear          Readability = "clear"
	ReadabilityPartiallyClear Readability = "partially_clear"
	ReadabilityUnreadable     Readability = "unreadable"
)

// QualityReport scores a captured image. All scores are 0-100; SkewDegrees is
// the absolute deviation from horizontal.
type QualityReport struct {
	BlurScore       float64     `json:"blur_score"`
	SkewScore       float64     `json:"skew_score"`
	SkewDegrees     float64     `json:"skew_degrees"`
	BrightnessScore float64     `json:"brightness_score"`
	Brightness      float64     `json:"brightness"`
	Composite       float64     `json:"composite"`
	Readability     Readability `json:"readability"`
	Blurry          bool        `json:"blurry"`
	Skewed          bool        `json:"skewed"`
}

// CompositeQuality folds the three sub-scores with the fixed weights.
func CompositeQuality(blur, skew, brightness float64) float64 {
	return QualityWeightBlur*blur + QualityWeightSkew*skew + QualityWeightBrightness*brightness
}

func ReadabilityFor(composite float64) Readability {
	switch {
	case composite >= 75:
		return ReadabilityClear
	case composite >= 50:
		return ReadabilityPartiallyClear
	default:
		return ReadabilityUnreadable
	}
}

// QualityFeedback is the actionable re-capture guidance surfaced to the
// uploader when the gate rejects a document.
type QualityFeedback struct {
	Usable      bool     `json:"usable"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}
