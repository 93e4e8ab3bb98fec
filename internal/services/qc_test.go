package services

import (
	"strings"
	"testing"

	"github.com/yungbote/doktrace-backend/internal/types"
)

func TestEvaluateGate(t *testing.T) {
	metalCheck := types.SnapshotField{
		Name:      "metal_detector",
		LabelEn:   "Metal detector",
		FieldType: types.FieldTypeBoolean,
	}
	moisture := types.SnapshotField{
		Name:      "moisture",
		LabelEn:   "Moisture",
		FieldType: types.FieldTypeNumber,
		MinValue:  floatPtr(2),
		MaxValue:  floatPtr(5),
	}
	tempMinOnly := types.SnapshotField{
		Name:      "temp",
		LabelEn:   "Temperature",
		FieldType: types.FieldTypeNumber,
		MinValue:  floatPtr(60),
	}
	notes := types.SnapshotField{
		Name:      "notes",
		LabelEn:   "Notes",
		FieldType: types.FieldTypeText,
	}

	t.Run("all_pass", func(t *testing.T) {
		failures := EvaluateGate([]GateFieldValue{
			{Field: metalCheck, Value: "true"},
			{Field: moisture, Value: "3.2"},
			{Field: notes, Value: "looks fine"},
		})
		if len(failures) != 0 {
			t.Fatalf("failures=%+v, want none", failures)
		}
	})

	t.Run("boolean_false_fails", func(t *testing.T) {
		failures := EvaluateGate([]GateFieldValue{
			{Field: metalCheck, Value: " FALSE "},
		})
		if len(failures) != 1 || failures[0].FieldName != "metal_detector" {
			t.Fatalf("failures=%+v, want one metal_detector failure", failures)
		}
	})

	t.Run("number_outside_both_bounds_fails", func(t *testing.T) {
		failures := EvaluateGate([]GateFieldValue{
			{Field: moisture, Value: "6.5"},
		})
		if len(failures) != 1 {
			t.Fatalf("failures=%+v, want one", failures)
		}
		if !strings.Contains(failures[0].Reason, "6.5") {
			t.Fatalf("reason=%q, want value mentioned", failures[0].Reason)
		}
	})

	t.Run("number_needs_both_bounds", func(t *testing.T) {
		failures := EvaluateGate([]GateFieldValue{
			{Field: tempMinOnly, Value: "10"},
		})
		if len(failures) != 0 {
			t.Fatalf("failures=%+v, want none for single-bound field", failures)
		}
	})

	t.Run("unparseable_number_is_skipped", func(t *testing.T) {
		failures := EvaluateGate([]GateFieldValue{
			{Field: moisture, Value: "smudged"},
		})
		if len(failures) != 0 {
			t.Fatalf("failures=%+v, want none for unparseable value", failures)
		}
	})

	t.Run("returns_all_failures", func(t *testing.T) {
		failures := EvaluateGate([]GateFieldValue{
			{Field: metalCheck, Value: "false"},
			{Field: moisture, Value: "0.5"},
		})
		if len(failures) != 2 {
			t.Fatalf("failures=%+v, want both reported", failures)
		}
	})
}
