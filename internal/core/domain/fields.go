package domain

type FieldStatus string

const (
	FieldFound    FieldStatus = "found"
	FieldNotFound FieldStatus = "not_found"
	FieldError    FieldStatus = "error"
)

// Field sources, recorded so a reviewer can see where a value came from.
const (
	FieldSourceVisionHint = "vision_hint"
	FieldSourceRegex      = "regex"
)

// FieldValue is tri-state: a field is found, explicitly absent, or errored.
// Absence is always explicit; it never collapses to a bare empty string.
type FieldValue struct {
	Value  string      `json:"value,omitempty"`
	Status FieldStatus `json:"status"`
	Source string      `json:"source,omitempty"`
}

func FoundField(value, source string) FieldValue {
	return FieldValue{Value: value, Status: FieldFound, Source: source}
}

func MissingField() FieldValue { return FieldValue{Status: FieldNotFound} }

func (v FieldValue) Present() bool { return v.Status == FieldFound && v.Value != "" }

// ExtractedFields maps every field key of the classified type to a tri-state
// value, plus the completeness ratio filled/total for that type's field set.
type ExtractedFields struct {
	Type         DocType               `json:"type"`
	Fields       map[string]FieldValue `json:"fields"`
	Filled       int                   `json:"filled"`
	Total        int                   `json:"total"`
	Completeness float64               `json:"completeness"`
}

func (f ExtractedFields) Get(key string) FieldValue {
	if v, ok := f.Fields[key]; ok {
		return v
	}
	return MissingField()
}
