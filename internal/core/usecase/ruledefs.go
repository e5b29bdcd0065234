package usecase

import (
	"fmt"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

const (
	minTextLength    = 50
	minCompleteness  = 0.50
	minSignatures    = 2
	severeBlurFloor  = 20.0
	minClassifyScore = domain.ClassificationReviewThreshold
)

// generalRules run against every document before any type-specific rule. A
// hard failure here short-circuits validation.
var generalRules = []rule{
	{
		ID:       "GEN_001",
		Name:     "image quality above threshold",
		Severity: domain.SeverityHard,
		Check: func(o *domain.ProcessingOutcome) (bool, string) {
			if o.Quality.Composite >= domain.QualityGateThreshold {
				return true, ""
			}
			return false, fmt.Sprintf("composite quality %.1f is below the minimum of %.0f", o.Quality.Composite, domain.QualityGateThreshold)
		},
	},
	{
		ID:       "GEN_002",
		Name:     "image not severely blurred",
		Severity: domain.SeverityHard,
		Check: func(o *domain.ProcessingOutcome) (bool, string) {
			if o.Quality.BlurScore >= severeBlurFloor {
				return true, ""
			}
			return false, fmt.Sprintf("blur score %.1f indicates an unreadable image", o.Quality.BlurScore)
		},
	},
	{
		ID:       "GEN_003",
		Name:     "sufficient text extracted",
		Severity: domain.SeverityHard,
		Check: func(o *domain.ProcessingOutcome) (bool, string) {
			if len(o.Text.Text) >= minTextLength {
				return true, ""
			}
			return false, fmt.Sprintf("only %d characters of text were extracted, need at least %d", len(o.Text.Text), minTextLength)
		},
	},
	{
		ID:       "GEN_004",
		Name:     "document type identified",
		Severity: domain.SeverityHard,
		Check: func(o *domain.ProcessingOutcome) (bool, string) {
			if o.Classification.Confidence >= minClassifyScore && o.Classification.Type != domain.DocTypeUnknown {
				return true, ""
			}
			return false, fmt.Sprintf("classification confidence %.2f is below %.2f", o.Classification.Confidence, minClassifyScore)
		},
	},
	{
		ID:       "GEN_005",
		Name:     "field extraction reasonably complete",
		Severity: domain.SeveritySoft,
		Check: func(o *domain.ProcessingOutcome) (bool, string) {
			if o.Fields.Completeness >= minCompleteness {
				return true, ""
			}
			return false, fmt.Sprintf("only %d of %d reference fields were found", o.Fields.Filled, o.Fields.Total)
		},
	},
	{
		ID:       "GEN_006",
		Name:     "document date present",
		Severity: domain.SeveritySoft,
		Check: func(o *domain.ProcessingOutcome) (bool, string) {
			if o.DocumentDate.Present() {
				return true, ""
			}
			return false, "no plausible document date was found"
		},
	},
}

func requiredField(id, key string, sev domain.RuleSeverity) rule {
	return rule{
		ID:       id,
		Name:     key + " present",
		Severity: sev,
		Check: func(o *domain.ProcessingOutcome) (bool, string) {
			if fv, ok := o.Fields.Fields[key]; ok && fv.Present() {
				return true, ""
			}
			return false, "required field " + key + " was not found"
		},
	}
}

var signatureCountRule = rule{
	ID:       "BOL_001",
	Name:     "shipper and carrier signatures present",
	Severity: domain.SeverityHard,
	Check: func(o *domain.ProcessingOutcome) (bool, string) {
		if !o.Signatures.Evaluated() {
			return false, "signature detection did not run, cannot confirm the required signatures"
		}
		if o.Signatures.Count >= minSignatures {
			return true, ""
		}
		return false, fmt.Sprintf("found %d signature(s), a bill of lading requires at least %d", o.Signatures.Count, minSignatures)
	},
}

var typeRules = map[domain.DocType][]rule{
	domain.DocTypeBillOfLading: {
		signatureCountRule,
		requiredField("BOL_002", "bol_number", domain.SeverityHard),
		requiredField("BOL_003", "shipper", domain.SeverityHard),
		requiredField("BOL_004", "consignee", domain.SeverityHard),
		requiredField("BOL_005", "carrier", domain.SeveritySoft),
		requiredField("BOL_006", "ship_date", domain.SeveritySoft),
		requiredField("BOL_007", "total_weight", domain.SeveritySoft),
	},
	domain.DocTypeProofOfDelivery: {
		requiredField("POD_001", "order_number", domain.SeverityHard),
		requiredField("POD_002", "delivery_date", domain.SeverityHard),
		requiredField("POD_003", "delivered_to", domain.SeveritySoft),
		requiredField("POD_004", "condition", domain.SeveritySoft),
	},
	domain.DocTypeCommercialInvoice: {
		requiredField("INV_001", "invoice_number", domain.SeverityHard),
		requiredField("INV_002", "total_amount", domain.SeverityHard),
		requiredField("INV_003", "invoice_date", domain.SeveritySoft),
		requiredField("INV_004", "seller", domain.SeveritySoft),
		requiredField("INV_005", "buyer", domain.SeveritySoft),
	},
	domain.DocTypePackingList: {
		requiredField("PKG_001", "order_number", domain.SeverityHard),
		requiredField("PKG_002", "total_cartons", domain.SeveritySoft),
		requiredField("PKG_003", "gross_weight", domain.SeveritySoft),
	},
	domain.DocTypeHazmat: {
		requiredField("HAZ_001", "un_number", domain.SeverityHard),
		requiredField("HAZ_002", "hazard_class", domain.SeverityHard),
		requiredField("HAZ_003", "shipping_name", domain.SeverityHard),
		requiredField("HAZ_004", "emergency_contact", domain.SeveritySoft),
	},
	domain.DocTypeLumperReceipt: {
		requiredField("LMP_001", "amount", domain.SeverityHard),
		requiredField("LMP_002", "order_number", domain.SeveritySoft),
		requiredField("LMP_003", "facility", domain.SeveritySoft),
	},
	domain.DocTypeTripSheet: {
		requiredField("TRP_001", "trip_number", domain.SeverityHard),
		requiredField("TRP_002", "driver_name", domain.SeveritySoft),
		requiredField("TRP_003", "total_miles", domain.SeveritySoft),
	},
	domain.DocTypeFreightInvoice: {
		requiredField("FRT_001", "pro_number", domain.SeverityHard),
		requiredField("FRT_002", "total_charges", domain.SeverityHard),
		requiredField("FRT_003", "carrier_name", domain.SeveritySoft),
	},
}
