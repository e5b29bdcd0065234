package gemini

import (
	"fmt"
	"strings"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

func typeList() string {
	names := make([]string, 0, len(domain.KnownDocTypes))
	for _, t := range domain.KnownDocTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func buildExtractionPrompt() string {
	return `You read freight documents. Transcribe all text from the attached document.
Return a strict JSON object with keys:
text (string, the full transcription preserving line breaks),
confidence (number from 0 to 1),
field_hints (object mapping snake_case field names like bol_number, order_number, shipper, consignee, invoice_number, total_amount to their values; only include fields you can read),
signatures (array of {location, signer, type, confidence} for every handwritten signature, stamp or initial you see; empty array if none).
No markdown, no extra keys.`
}

func buildClassificationPrompt(text string) string {
	const maxSnippet = 4000
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return fmt.Sprintf(`You classify freight documents. Allowed types: %s.
Look at the attached document and the extracted text below, then pick exactly one type.
Return a strict JSON object with keys:
type (string, one of the allowed types), confidence (number from 0 to 1), rationale (short string).
No markdown, no extra keys.

Extracted text:
%s`, typeList(), snippet)
}

func buildSignaturePrompt() string {
	return `You inspect freight documents for signatures. Find every handwritten
signature, stamp or initial on the attached document.
Return a strict JSON object with one key:
signatures (array of {location, signer, type, confidence}), where signer is the
likely party (shipper, carrier, driver, receiver) and type is signature, stamp
or initials. Empty array if the document carries none.
No markdown, no extra keys.`
}

func buildFeedbackPrompt(report domain.QualityReport) string {
	return fmt.Sprintf(`A freight document capture was rejected for poor quality.
Measured scores (0-100): blur %.1f, skew %.1f (%.1f degrees), brightness %.1f, composite %.1f.
Look at the attachment and tell the uploader how to re-capture it.
Return a strict JSON object with keys:
issues (array of short strings naming what is wrong),
suggestions (array of short, concrete re-capture instructions).
No markdown, no extra keys.`,
		report.BlurScore, report.SkewScore, report.SkewDegrees, report.BrightnessScore, report.Composite)
}
