package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// FieldExtractor pulls the per-type reference fields out of fused text. Vision
// field hints win over regex matches; a field absent from both sources is
// recorded as not found rather than dropped, so completeness counts the full
// reference set.
type FieldExtractor struct{}

func NewFieldExtractor() *FieldExtractor { return &FieldExtractor{} }

func (e *FieldExtractor) Extract(docType domain.DocType, fused domain.FusedText) domain.ExtractedFields {
	defs := fieldDefsFor(docType)
	fields := make(map[string]domain.FieldValue, len(defs))
	filled := 0

	for _, fd := range defs {
		fv := e.extractOne(fd, fused)
		if fv.Present() {
			filled++
		}
		fields[fd.key] = fv
	}

	total := len(defs)
	completeness := 0.0
	if total > 0 {
		completeness = float64(filled) / float64(total)
	}
	return domain.ExtractedFields{
		Type:         docType,
		Fields:       fields,
		Filled:       filled,
		Total:        total,
		Completeness: completeness,
	}
}

func (e *FieldExtractor) extractOne(fd fieldDef, fused domain.FusedText) domain.FieldValue {
	if hint, ok := fused.FieldHints[fd.key]; ok && strings.TrimSpace(hint) != "" {
		return domain.FieldValue{
			Value:  normalizeFieldValue(fd.key, hint),
			Status: domain.FieldFound,
			Source: domain.FieldSourceVisionHint,
		}
	}
	m := fd.pattern.FindStringSubmatch(fused.Text)
	if len(m) < 2 || strings.TrimSpace(m[1]) == "" {
		return domain.MissingField()
	}
	return domain.FieldValue{
		Value:  normalizeFieldValue(fd.key, m[1]),
		Status: domain.FieldFound,
		Source: domain.FieldSourceRegex,
	}
}

// Promote selects the top-level order number, invoice number and document date
// from whichever per-type fields carry them.
func (e *FieldExtractor) Promote(fields domain.ExtractedFields) (order, invoice, date domain.FieldValue) {
	return firstPresent(fields, orderNumberKeys),
		firstPresent(fields, invoiceNumberKeys),
		firstPresent(fields, documentDateKeys)
}

func firstPresent(fields domain.ExtractedFields, keys []string) domain.FieldValue {
	for _, k := range keys {
		if fv, ok := fields.Fields[k]; ok && fv.Present() {
			return fv
		}
	}
	return domain.MissingField()
}

var dateValueKeys = map[string]bool{
	"date": true, "ship_date": true, "delivery_date": true,
	"invoice_date": true, "packing_date": true,
}

func normalizeFieldValue(key, raw string) string {
	v := strings.TrimSpace(raw)
	v = strings.TrimRight(v, ".,;")
	if dateValueKeys[key] {
		if iso, ok := normalizeDate(v); ok {
			return iso
		}
	}
	return v
}

var dateRe = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})$`)

// normalizeDate converts M/D/Y with two or four digit years to YYYY-MM-DD.
// Values it cannot parse pass through untouched.
func normalizeDate(v string) (string, bool) {
	m := dateRe.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
