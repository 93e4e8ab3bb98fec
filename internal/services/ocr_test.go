package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/clients/openai"
)

func TestMergeReadings(t *testing.T) {
	fieldA := uuid.New()
	fieldB := uuid.New()
	fieldC := uuid.New()

	t.Run("keeps_highest_confidence_per_field", func(t *testing.T) {
		merged := MergeReadings([][]openai.FieldReading{
			{
				{FieldID: fieldA, RawValue: "3.1", Confidence: 0.60},
				{FieldID: fieldB, RawValue: "true", Confidence: 0.95},
			},
			{
				{FieldID: fieldA, RawValue: "3.4", Confidence: 0.90},
				{FieldID: fieldC, RawValue: "82", Confidence: 0.70},
			},
		})
		if len(merged) != 3 {
			t.Fatalf("merged %d readings, want 3", len(merged))
		}
		byField := map[uuid.UUID]openai.FieldReading{}
		for _, r := range merged {
			byField[r.FieldID] = r
		}
		if byField[fieldA].RawValue != "3.4" {
			t.Fatalf("fieldA=%q, want higher-confidence 3.4", byField[fieldA].RawValue)
		}
		if byField[fieldB].RawValue != "true" || byField[fieldC].RawValue != "82" {
			t.Fatalf("unexpected merge result: %+v", byField)
		}
	})

	t.Run("tie_keeps_first_reading", func(t *testing.T) {
		merged := MergeReadings([][]openai.FieldReading{
			{{FieldID: fieldA, RawValue: "first", Confidence: 0.80}},
			{{FieldID: fieldA, RawValue: "second", Confidence: 0.80}},
		})
		if len(merged) != 1 || merged[0].RawValue != "first" {
			t.Fatalf("merged=%+v, want single 'first' reading", merged)
		}
	})

	t.Run("preserves_first_appearance_order", func(t *testing.T) {
		merged := MergeReadings([][]openai.FieldReading{
			{
				{FieldID: fieldB, RawValue: "b", Confidence: 0.5},
				{FieldID: fieldA, RawValue: "a", Confidence: 0.5},
			},
			{
				{FieldID: fieldA, RawValue: "a2", Confidence: 0.9},
				{FieldID: fieldC, RawValue: "c", Confidence: 0.5},
			},
		})
		wantOrder := []uuid.UUID{fieldB, fieldA, fieldC}
		if len(merged) != len(wantOrder) {
			t.Fatalf("merged %d readings, want %d", len(merged), len(wantOrder))
		}
		for i, id := range wantOrder {
			if merged[i].FieldID != id {
				t.Fatalf("position %d has field %s, want %s", i, merged[i].FieldID, id)
			}
		}
		if merged[1].RawValue != "a2" {
			t.Fatalf("fieldA kept %q, want replaced value a2", merged[1].RawValue)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		if merged := MergeReadings(nil); len(merged) != 0 {
			t.Fatalf("merged=%+v, want empty", merged)
		}
	})
}
