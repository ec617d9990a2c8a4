package validate

import "fmt"

// Code classifies a validation finding.
type Code string

const (
	CodeMissingField    Code = "missing_field"
	CodeTypeMismatch    Code = "type_mismatch"
	CodeOutOfRange      Code = "out_of_range"
	CodeInvalidCategory Code = "invalid_category"
	CodeCrossField      Code = "cross_field"
	// CodeUnknownField flags column names the dictionary does not know.
	CodeUnknownField Code = "unknown_field"
)

// Violation is one finding against a raw record.
type Violation struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func renderValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
