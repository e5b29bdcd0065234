package domain

type DocType string

const (
	DocTypeBillOfLading      DocType = "bill_of_lading"
	DocTypeProofOfDelivery   DocType = "proof_of_delivery"
	DocTypeCommercialInvoice DocType = "commercial_invoice"
	DocTypePackingList       DocType = "packing_list"
	DocTypeHazmat            DocType = "hazmat_document"
	DocTypeLumperReceipt     DocType = "lumper_receipt"
	DocTypeTripSheet         DocType = "trip_sheet"
	DocTypeFreightInvoice    DocType = "freight_invoice"
	DocTypeUnknown           DocType = "unknown"
)

// KnownDocTypes lists every classifiable type, in a stable order.
var KnownDocTypes = []DocType{
	DocTypeBillOfLading,
	DocTypeProofOfDelivery,
	DocTypeCommercialInvoice,
	DocTypePackingList,
	DocTypeHazmat,
	DocTypeLumperReceipt,
	DocTypeTripSheet,
	DocTypeFreightInvoice,
}

// RequiresSignatures reports whether the type legally requires signatures and
// therefore triggers signature detection.
func (t DocType) RequiresSignatures() bool { return t == DocTypeBillOfLading }

// Signal names and voting weights. Weights must sum to 1.0.
const (
	SignalEmbedding = "embedding"
	SignalVision    = "vision"
	SignalKeyword   = "keyword"

	VoteWeightEmbedding = 0.45
	VoteWeightVision    = 0.35
	VoteWeightKeyword   = 0.20

	// ClassificationReviewThreshold is the winning confidence below which the
	// document is classified Unknown and flagged for manual review.
	ClassificationReviewThreshold = 0.50
)

// ClassificationVote is one signal's verdict: a best type plus its per-type
// score breakdown (0-1 each).
type ClassificationVote struct {
	Signal     string              `json:"signal"`
	Predicted  DocType             `json:"predicted"`
	Confidence float64             `json:"confidence"`
	Scores     map[DocType]float64 `json:"scores,omitempty"`
	Rationale  string              `json:"rationale,omitempty"`
}

// ClassificationResult is the fixed-weight fold of all votes.
type ClassificationResult struct {
	Type        DocType              `json:"type"`
	Confidence  float64              `json:"confidence"`
	Signals     []string             `json:"signals"`
	Votes       []ClassificationVote `json:"votes,omitempty"`
	NeedsReview bool                 `json:"needs_review"`
}
