package domain

type StrategyKind string

const (
	// StrategyFast skips the local OCR engine entirely and relies on the
	// vision provider alone.
	StrategyFast StrategyKind = "fast"
	// StrategyQualityFirst gates on image quality before spending any
	// extraction call.
	StrategyQualityFirst StrategyKind = "quality-first"
	// StrategyDual runs both providers and always fuses their output.
	StrategyDual StrategyKind = "dual"
	// StrategyEnhanced runs the local provider first and consults the agent
	// again before deciding whether the vision provider is also needed.
	StrategyEnhanced StrategyKind = "enhanced"
	// StrategyStandard gates on quality and then runs both providers.
	StrategyStandard StrategyKind = "standard"
)

// ProcessingStrategy is chosen once per run and consumed read-only by the
// rest of the pipeline.
type ProcessingStrategy struct {
	Kind              StrategyKind `json:"kind"`
	RunLocal          bool         `json:"run_local"`
	RunVision         bool         `json:"run_vision"`
	SecondPassDecides bool         `json:"second_pass_decides"`
	QualityGateFirst  bool         `json:"quality_gate_first"`
	EstimatedSeconds  int          `json:"estimated_seconds"`
	EstimatedAPICalls int          `json:"estimated_api_calls"`
	Rationale         string       `json:"rationale"`
}

// SecondPassDecision is the agent's mid-pipeline call on whether the vision
// provider is still worth running after a local result exists.
type SecondPassDecision struct {
	SkipVision bool   `json:"skip_vision"`
	Reason     string `json:"reason"`
}
