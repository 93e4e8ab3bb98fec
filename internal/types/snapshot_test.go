package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestFlowSnapshotLookups(t *testing.T) {
	stageID := uuid.New()
	fieldID := uuid.New()
	snapshot := FlowSnapshot{
		{StageID: uuid.New(), Name: "Mixing", Order: 1},
		{
			StageID: stageID,
			Name:    "Drying",
			Order:   2,
			Fields: []SnapshotField{
				{FieldID: uuid.New(), Name: "temp"},
				{FieldID: fieldID, Name: "moisture"},
			},
		},
	}

	stage := snapshot.Stage(stageID)
	if stage == nil || stage.Name != "Drying" {
		t.Fatalf("Stage(%s) = %+v, want Drying", stageID, stage)
	}
	field := stage.Field(fieldID)
	if field == nil || field.Name != "moisture" {
		t.Fatalf("Field(%s) = %+v, want moisture", fieldID, field)
	}
	if snapshot.Stage(uuid.New()) != nil {
		t.Fatal("expected nil for unknown stage")
	}
	if stage.Field(uuid.New()) != nil {
		t.Fatal("expected nil for unknown field")
	}

	var nilStage *SnapshotStage
	if nilStage.Field(fieldID) != nil {
		t.Fatal("expected nil field lookup on nil stage")
	}
}

func TestFlowSnapshotJSONRoundTrip(t *testing.T) {
	min := 10.5
	snapshot := FlowSnapshot{
		{
			StageID:  uuid.New(),
			Name:     "Roasting",
			Order:    1,
			IsQcGate: true,
			Version:  3,
			Fields: []SnapshotField{
				{FieldID: uuid.New(), Name: "temp", FieldType: FieldTypeNumber, MinValue: &min},
			},
		},
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded FlowSnapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Version != 3 || !decoded[0].IsQcGate {
		t.Fatalf("round trip lost stage data: %+v", decoded)
	}
	if decoded[0].Fields[0].MinValue == nil || *decoded[0].Fields[0].MinValue != 10.5 {
		t.Fatalf("round trip lost field bound: %+v", decoded[0].Fields[0])
	}
}
