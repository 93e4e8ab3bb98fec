package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yungbote/doktrace-backend/internal/types"
)

// ParseNumber parses a captured field value as a float. Returns false for
// anything a human or the OCR wrote that is not a plain number.
func ParseNumber(value string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// OutOfRangeMessage checks one captured value against its snapshot field. It
// returns a human-readable violation message, or "" when the value is in
// range, unparseable, or not numeric. Each bound is checked independently.
func OutOfRangeMessage(field types.SnapshotField, value string) string {
	if field.FieldType != types.FieldTypeNumber {
		return ""
	}
	if field.MinValue == nil && field.MaxValue == nil {
		return ""
	}
	v, ok := ParseNumber(value)
	if !ok {
		return ""
	}
	below := field.MinValue != nil && v < *field.MinValue
	above := field.MaxValue != nil && v > *field.MaxValue
	if !below && !above {
		return ""
	}
	return fmt.Sprintf("%s: %s is outside range [%s-%s]",
		field.LabelEn,
		strings.TrimSpace(value),
		formatBound(field.MinValue),
		formatBound(field.MaxValue),
	)
}

func formatBound(v *float64) string {
	if v == nil {
		return "*"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
