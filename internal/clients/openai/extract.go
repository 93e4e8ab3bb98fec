package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FormField describes one expected field on a paper form, taken from a
// batch's frozen snapshot.
type FormField struct {
	FieldID   uuid.UUID
	Name      string
	LabelEn   string
	FieldType string
	Unit      string
}

// FieldReading is one extracted value for a known field.
type FieldReading struct {
	FieldID    uuid.UUID
	RawValue   string
	Confidence float64
}

const extractSystemPrompt = `You read handwritten food-production log sheets. ` +
	`You are given a photo of one filled-in form and the list of fields the form contains. ` +
	`Extract the handwritten value for each field you can read. ` +
	`Return values exactly as written (do not convert units). ` +
	`For BOOLEAN fields return "true" or "false". ` +
	`Report a confidence between 0 and 1 for each extraction. ` +
	`Only report fields from the provided list; skip fields you cannot read.`

var extractSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"extractions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fieldId":    map[string]any{"type": "string"},
					"rawValue":   map[string]any{"type": "string"},
					"confidence": map[string]any{"type": "number"},
				},
				"required":             []string{"fieldId", "rawValue", "confidence"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"extractions"},
	"additionalProperties": false,
}

// ExtractFormData reads one form photo against a known field list and returns
// per-field readings. Readings for unknown field ids are dropped.
func ExtractFormData(ctx context.Context, c Client, photoURL string, fields []FormField) ([]FieldReading, error) {
	if strings.TrimSpace(photoURL) == "" {
		return nil, fmt.Errorf("photoURL required")
	}
	if len(fields) == 0 {
		return []FieldReading{}, nil
	}

	var prompt strings.Builder
	prompt.WriteString("Fields on this form:\n")
	for _, f := range fields {
		prompt.WriteString("- id=")
		prompt.WriteString(f.FieldID.String())
		prompt.WriteString(" name=")
		prompt.WriteString(f.Name)
		prompt.WriteString(" label=")
		prompt.WriteString(f.LabelEn)
		prompt.WriteString(" type=")
		prompt.WriteString(f.FieldType)
		if strings.TrimSpace(f.Unit) != "" {
			prompt.WriteString(" unit=")
			prompt.WriteString(f.Unit)
		}
		prompt.WriteString("\n")
	}

	obj, err := c.GenerateJSONWithImages(ctx, extractSystemPrompt, prompt.String(),
		[]ImageInput{{ImageURL: photoURL, Detail: "high"}},
		"form_extraction", extractSchema)
	if err != nil {
		return nil, err
	}

	known := make(map[uuid.UUID]bool, len(fields))
	for _, f := range fields {
		known[f.FieldID] = true
	}

	rawList, _ := obj["extractions"].([]any)
	out := make([]FieldReading, 0, len(rawList))
	for _, item := range rawList {
		m, _ := item.(map[string]any)
		if m == nil {
			continue
		}
		idStr, _ := m["fieldId"].(string)
		fieldID, parseErr := uuid.Parse(strings.TrimSpace(idStr))
		if parseErr != nil || !known[fieldID] {
			continue
		}
		rawValue, _ := m["rawValue"].(string)
		if strings.TrimSpace(rawValue) == "" {
			continue
		}
		conf := 0.0
		if f, ok := m["confidence"].(float64); ok {
			conf = f
		}
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		out = append(out, FieldReading{
			FieldID:    fieldID,
			RawValue:   strings.TrimSpace(rawValue),
			Confidence: conf,
		})
	}
	return out, nil
}
