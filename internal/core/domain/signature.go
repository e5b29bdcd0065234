package domain

type SignatureState string

const (
	// SignatureNotRequired means the classified type does not call for
	// signatures at all; detection never ran.
	SignatureNotRequired SignatureState = "not_required"
	// SignatureEvaluated means detection ran; Count may legitimately be zero.
	SignatureEvaluated SignatureState = "evaluated"
	// SignatureCheckFailed means detection was required but the capability
	// call failed after retries. Must never be read as "zero found".
	SignatureCheckFailed SignatureState = "check_failed"
)

type Signature struct {
	Location   string  `json:"location"`
	Signer     string  `json:"signer"`
	Kind       string  `json:"kind"`
	Confidence float64 `json:"confidence"`
}

type SignatureInfo struct {
	State      SignatureState `json:"state"`
	Count      int            `json:"count"`
	Signatures []Signature    `json:"signatures,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Evaluated reports whether Count carries meaning.
func (s SignatureInfo) Evaluated() bool { return s.State == SignatureEvaluated }
