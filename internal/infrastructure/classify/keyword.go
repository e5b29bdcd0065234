package classify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// Indicator terms per document type. The first entry is always the exact
// document name and carries the most weight.
var indicatorTerms = map[domain.DocType][]string{
	domain.DocTypeBillOfLading: {
		"bill of lading", "b/l", "bol", "shipper", "consignee",
		"notify party", "vessel", "port of loading", "port of discharge",
		"freight collect", "freight prepaid", "on board", "carrier",
		"scac", "pro number", "shipment", "freight charges",
	},
	domain.DocTypeProofOfDelivery: {
		"proof of delivery", "pod", "delivered to", "received in good condition",
		"delivery receipt", "consignee signature", "delivery confirmation",
		"goods received", "recipient signature", "delivery date",
		"received by", "date received",
	},
	domain.DocTypePackingList: {
		"packing list", "pack list", "carton", "gross weight", "net weight",
		"dimensions", "pieces", "packages", "hs code", "item description",
		"quantity", "total packages", "package contents", "packing details",
	},
	domain.DocTypeCommercialInvoice: {
		"commercial invoice", "invoice no", "invoice number", "invoice date",
		"payment terms", "unit price", "total amount", "tax invoice",
		"seller", "buyer", "incoterms", "vat", "subtotal", "net total",
		"invoice total", "invoice amount",
	},
	domain.DocTypeHazmat: {
		"hazardous", "hazmat", "dangerous goods", "un number", "un no",
		"packing group", "emergency contact", "proper shipping name",
		"flashpoint", "placard", "imdg", "msds", "safety data",
		"hazard class", "emergency response",
	},
	domain.DocTypeLumperReceipt: {
		"lumper", "lumper receipt", "unloading", "loading labor",
		"labor receipt", "lumper service", "unload receipt",
		"warehouse labor", "lumper fee", "lumper payment", "lumper charges",
	},
	domain.DocTypeTripSheet: {
		"trip sheet", "trip report", "odometer", "miles driven",
		"fuel stop", "state crossing", "driver log", "trip log",
		"departure time", "arrival time", "mileage", "fuel receipt",
		"trip number", "route", "stops",
	},
	domain.DocTypeFreightInvoice: {
		"freight invoice", "freight bill", "carrier invoice",
		"transportation charges", "freight charges", "linehaul",
		"fuel surcharge", "accessorial", "pro number", "pro#",
		"carrier charges", "transportation invoice",
	},
}

const minKeywordMatches = 2

type compiledTerm struct {
	term    string
	pattern *regexp.Regexp
	weight  float64
}

// KeywordSignal scores each type by weighted word-boundary matches of its
// indicator terms. Pure local computation; it never fails.
type KeywordSignal struct {
	terms map[domain.DocType][]compiledTerm
}

func NewKeywordSignal() *KeywordSignal {
	compiled := make(map[domain.DocType][]compiledTerm, len(indicatorTerms))
	for docType, terms := range indicatorTerms {
		list := make([]compiledTerm, 0, len(terms))
		for i, term := range terms {
			weight := 1.0
			switch {
			case i == 0:
				// The exact document name.
				weight = 5.0
			case strings.Contains(term, " "):
				weight = 2.0
			}
			list = append(list, compiledTerm{
				term:    term,
				pattern: boundaryPattern(term),
				weight:  weight,
			})
		}
		compiled[docType] = list
	}
	return &KeywordSignal{terms: compiled}
}

// boundaryPattern anchors a term on word boundaries where the term itself
// starts or ends with a word character. Terms like "pro#" or "b/l" keep
// matching even though \b cannot sit next to punctuation.
func boundaryPattern(term string) *regexp.Regexp {
	expr := regexp.QuoteMeta(term)
	if isWordChar(term[0]) {
		expr = `\b` + expr
	}
	if isWordChar(term[len(term)-1]) {
		expr += `\b`
	}
	return regexp.MustCompile(`(?i)` + expr)
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (s *KeywordSignal) Name() string { return domain.SignalKeyword }

func (s *KeywordSignal) Score(_ context.Context, _ domain.RunInput, text string) (domain.ClassificationVote, error) {
	scores := make(map[domain.DocType]float64)
	matched := make(map[domain.DocType][]string)
	total := 0.0

	for docType, terms := range s.terms {
		points := 0.0
		hits := 0
		for _, t := range terms {
			if t.pattern.MatchString(text) {
				points += t.weight
				hits++
				matched[docType] = append(matched[docType], t.term)
			}
		}
		// A single stray term is noise, not a signal.
		if hits < minKeywordMatches {
			continue
		}
		scores[docType] = points
		total += points
	}

	if total == 0 {
		return domain.ClassificationVote{
			Signal:    domain.SignalKeyword,
			Predicted: domain.DocTypeUnknown,
			Rationale: "no document type reached two indicator term matches",
		}, nil
	}

	normalized := make(map[domain.DocType]float64, len(scores))
	var best domain.DocType
	bestScore := 0.0
	for docType, points := range scores {
		normalized[docType] = points / total
		if normalized[docType] > bestScore {
			best, bestScore = docType, normalized[docType]
		}
	}

	return domain.ClassificationVote{
		Signal:     domain.SignalKeyword,
		Predicted:  best,
		Confidence: bestScore,
		Scores:     normalized,
		Rationale:  fmt.Sprintf("matched terms: %s", strings.Join(matched[best], ", ")),
	}, nil
}
