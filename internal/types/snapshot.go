package types

import "github.com/google/uuid"

// SnapshotField and SnapshotStage are deliberately disjoint from StageField
// and ProcessStage: a flow snapshot is a frozen deep copy, so later catalog
// edits can never alias into a batch created before them.

type SnapshotField struct {
	FieldID   uuid.UUID `json:"fieldId"`
	Name      string    `json:"name"`
	LabelEn   string    `json:"labelEn"`
	LabelHi   string    `json:"labelHi,omitempty"`
	FieldType string    `json:"fieldType"`
	Unit      string    `json:"unit,omitempty"`
	MinValue  *float64  `json:"minValue,omitempty"`
	MaxValue  *float64  `json:"maxValue,omitempty"`
	Required  bool      `json:"required"`
	Options   string    `json:"options,omitempty"`
}

type SnapshotStage struct {
	StageID  uuid.UUID       `json:"stageId"`
	Name     string          `json:"name"`
	Order    int             `json:"order"`
	IsQcGate bool            `json:"isQcGate"`
	Version  int             `json:"version"`
	Fields   []SnapshotField `json:"fields"`
}

// FlowSnapshot is the execution plan frozen into a batch at creation time.
type FlowSnapshot []SnapshotStage

func (s FlowSnapshot) Stage(stageID uuid.UUID) *SnapshotStage {
	for i := range s {
		if s[i].StageID == stageID {
			return &s[i]
		}
	}
	return nil
}

func (st *SnapshotStage) Field(fieldID uuid.UUID) *SnapshotField {
	if st == nil {
		return nil
	}
	for i := range st.Fields {
		if st.Fields[i].FieldID == fieldID {
			return &st.Fields[i]
		}
	}
	return nil
}
