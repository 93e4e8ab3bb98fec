package services

import (
	"testing"

	"github.com/yungbote/doktrace-backend/internal/types"
)

func floatPtr(v float64) *float64 { return &v }

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "12.5", want: 12.5, wantOK: true},
		{in: "  7 ", want: 7, wantOK: true},
		{in: "-3.2", want: -3.2, wantOK: true},
		{in: "abc", wantOK: false},
		{in: "", wantOK: false},
		{in: "12,5", wantOK: false},
	}
	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		if ok != tc.wantOK {
			t.Fatalf("ParseNumber(%q) ok=%v, want %v", tc.in, ok, tc.wantOK)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseNumber(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestOutOfRangeMessage(t *testing.T) {
	moisture := types.SnapshotField{
		Name:      "moisture",
		LabelEn:   "Moisture",
		FieldType: types.FieldTypeNumber,
		MinValue:  floatPtr(2),
		MaxValue:  floatPtr(5),
	}
	minOnly := types.SnapshotField{
		Name:      "temp",
		LabelEn:   "Temperature",
		FieldType: types.FieldTypeNumber,
		MinValue:  floatPtr(60),
	}
	text := types.SnapshotField{
		Name:      "operator",
		LabelEn:   "Operator",
		FieldType: types.FieldTypeText,
	}

	cases := []struct {
		name  string
		field types.SnapshotField
		value string
		want  string
	}{
		{name: "in_range", field: moisture, value: "3.5", want: ""},
		{name: "at_min_boundary", field: moisture, value: "2", want: ""},
		{name: "at_max_boundary", field: moisture, value: "5", want: ""},
		{name: "below_min", field: moisture, value: "1.5", want: "Moisture: 1.5 is outside range [2-5]"},
		{name: "above_max", field: moisture, value: "6.1", want: "Moisture: 6.1 is outside range [2-5]"},
		{name: "min_only_violation", field: minOnly, value: "55", want: "Temperature: 55 is outside range [60-*]"},
		{name: "min_only_pass", field: minOnly, value: "200", want: ""},
		{name: "unparseable_value_is_silent", field: moisture, value: "n/a", want: ""},
		{name: "non_number_field_is_silent", field: text, value: "anything", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OutOfRangeMessage(tc.field, tc.value)
			if got != tc.want {
				t.Fatalf("OutOfRangeMessage(%s, %q)=%q, want %q", tc.field.Name, tc.value, got, tc.want)
			}
		})
	}
}
