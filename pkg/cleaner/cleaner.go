// Package cleaner normalises spreadsheet cell values before they are matched or displayed.
//
// Cells come from exports edited by hand, so the same identifier can arrive as "4521",
// " 4521 ", "4521.0" or "04521". Every join in the portal goes through Numeric so both
// sides of a comparison are reduced to the same canonical digits.
package cleaner

import (
	"strings"
	"unicode"
)

const nanToken = "nan"

// IsBlank reports whether a cell should be treated as missing.
func IsBlank(value string) bool {
	trimmed := strings.TrimSpace(value)

	return trimmed == "" || strings.EqualFold(trimmed, nanToken)
}

// Numeric returns the digits of value left of the first decimal point.
// Blank cells and "nan" collapse to the empty string.
func Numeric(value string) string {
	if IsBlank(value) {
		return ""
	}

	whole, _, _ := strings.Cut(value, ".")

	var digits strings.Builder
	for _, r := range whole {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	return digits.String()
}

// Identifier is like Numeric but keeps non-digit characters, for alphanumeric IDs.
func Identifier(value string) string {
	if IsBlank(value) {
		return ""
	}

	return strings.TrimSpace(value)
}

// Text returns the trimmed cell or fallback when the cell is blank.
func Text(value string, fallback string) string {
	if IsBlank(value) {
		return fallback
	}

	return strings.TrimSpace(value)
}

// HasDigit reports whether value contains at least one decimal digit.
func HasDigit(value string) bool {
	return strings.IndexFunc(value, unicode.IsDigit) >= 0
}

// PadStoreID zero-pads a cleaned store identifier to width. Longer IDs are left as-is
// and an empty ID stays empty.
func PadStoreID(id string, width int) string {
	if id == "" || len(id) >= width {
		return id
	}

	return strings.Repeat("0", width-len(id)) + id
}
