package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/types"
)

func strPtr(s string) *string { return &s }

func TestMeasurementRepoUpsertIdempotent(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250110-"+product.Code+"-001")
	record := seedStageRecord(t, tx, batch)
	repo := NewMeasurementRepo(testDB, testLog)

	fieldID := uuid.New()
	first := &types.Measurement{
		ID:            uuid.New(),
		StageRecordID: record.ID,
		FieldID:       fieldID,
		Value:         "3.1",
	}
	if err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &types.Measurement{
		ID:            uuid.New(),
		StageRecordID: record.ID,
		FieldID:       fieldID,
		Value:         "3.4",
		IsCorrected:   true,
		CorrectedFrom: strPtr("3.1"),
	}
	if err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := repo.GetByStageRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByStageRecordID: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 after re-upsert of same field", len(rows))
	}
	if rows[0].Value != "3.4" || !rows[0].IsCorrected {
		t.Fatalf("row=%+v, want corrected value 3.4", rows[0])
	}
	if rows[0].CorrectedFrom == nil || *rows[0].CorrectedFrom != "3.1" {
		t.Fatalf("corrected_from=%v, want 3.1", rows[0].CorrectedFrom)
	}
}

func TestMeasurementRepoDeleteUncorrectedOCR(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250111-"+product.Code+"-001")
	record := seedStageRecord(t, tx, batch)
	repo := NewMeasurementRepo(testDB, testLog)

	untouchedOCR := &types.Measurement{
		ID:            uuid.New(),
		StageRecordID: record.ID,
		FieldID:       uuid.New(),
		Value:         "3.1",
		OCRRawValue:   strPtr("3.1"),
	}
	correctedOCR := &types.Measurement{
		ID:            uuid.New(),
		StageRecordID: record.ID,
		FieldID:       uuid.New(),
		Value:         "4.0",
		OCRRawValue:   strPtr("40"),
		IsCorrected:   true,
		CorrectedFrom: strPtr("40"),
	}
	manual := &types.Measurement{
		ID:            uuid.New(),
		StageRecordID: record.ID,
		FieldID:       uuid.New(),
		Value:         "ok",
	}
	if err := repo.CreateMany(ctx, tx, []*types.Measurement{untouchedOCR, correctedOCR, manual}); err != nil {
		t.Fatalf("CreateMany: %v", err)
	}

	if err := repo.DeleteUncorrectedOCR(ctx, tx, record.ID); err != nil {
		t.Fatalf("DeleteUncorrectedOCR: %v", err)
	}

	rows, err := repo.GetByStageRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByStageRecordID: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want corrected + manual to survive", len(rows))
	}
	for _, r := range rows {
		if r.ID == untouchedOCR.ID {
			t.Fatal("untouched OCR row survived the delete")
		}
	}
}

func TestMeasurementRepoFullDeleteByBatchID(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250112-"+product.Code+"-001")
	record := seedStageRecord(t, tx, batch)
	otherBatch := seedBatch(t, tx, product, user, "DOK-20250112-"+product.Code+"-002")
	otherRecord := seedStageRecord(t, tx, otherBatch)
	repo := NewMeasurementRepo(testDB, testLog)

	if err := repo.CreateMany(ctx, tx, []*types.Measurement{
		{ID: uuid.New(), StageRecordID: record.ID, FieldID: uuid.New(), Value: "1"},
		{ID: uuid.New(), StageRecordID: otherRecord.ID, FieldID: uuid.New(), Value: "2"},
	}); err != nil {
		t.Fatalf("CreateMany: %v", err)
	}

	if err := repo.FullDeleteByBatchID(ctx, tx, batch.ID); err != nil {
		t.Fatalf("FullDeleteByBatchID: %v", err)
	}

	gone, err := repo.GetByStageRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByStageRecordID: %v", err)
	}
	if len(gone) != 0 {
		t.Fatalf("deleted batch still has %d measurements", len(gone))
	}
	kept, err := repo.GetByStageRecordID(ctx, tx, otherRecord.ID)
	if err != nil {
		t.Fatalf("GetByStageRecordID: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("other batch lost its measurements: %d", len(kept))
	}
}
