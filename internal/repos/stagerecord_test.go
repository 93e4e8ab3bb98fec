package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/types"
)

func TestStageRecordRepoUpdateOCRStatus(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250140-"+product.Code+"-001")
	record := seedStageRecord(t, tx, batch)
	repo := NewStageRecordRepo(testDB, testLog)

	for _, status := range []string{types.OCRProcessing, types.OCRCompleted} {
		if err := repo.UpdateOCRStatus(ctx, tx, record.ID, status); err != nil {
			t.Fatalf("UpdateOCRStatus(%s): %v", status, err)
		}
		reloaded, err := repo.GetByID(ctx, tx, record.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if reloaded.OCRStatus != status {
			t.Fatalf("ocr_status=%s, want %s", reloaded.OCRStatus, status)
		}
	}
}

func TestStageRecordRepoOnePerBatchStage(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250141-"+product.Code+"-001")
	record := seedStageRecord(t, tx, batch)
	repo := NewStageRecordRepo(testDB, testLog)

	_, err := repo.CreateMany(ctx, tx, []*types.StageRecord{{
		ID:        uuid.New(),
		BatchID:   batch.ID,
		StageID:   record.StageID,
		OCRStatus: types.OCRPending,
	}})
	if err == nil {
		t.Fatal("expected unique violation for duplicate (batch, stage) record")
	}
}

// An OCR re-run deletes the previous uncorrected readings and inserts fresh
// ones while holding a record loaded with its measurements preloaded. The
// final record update must not write those stale associations back: that
// would either collide on (stage_record_id, field_id) or resurrect deleted
// rows.
func TestStageRecordRepoUpdateLeavesMeasurementsAlone(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250143-"+product.Code+"-001")
	record := seedStageRecord(t, tx, batch)
	recordRepo := NewStageRecordRepo(testDB, testLog)
	measurementRepo := NewMeasurementRepo(testDB, testLog)

	fieldID := uuid.New()
	staleRaw := "71.2"
	if err := measurementRepo.CreateMany(ctx, tx, []*types.Measurement{{
		ID:            uuid.New(),
		StageRecordID: record.ID,
		FieldID:       fieldID,
		Value:         staleRaw,
		OCRRawValue:   &staleRaw,
	}}); err != nil {
		t.Fatalf("CreateMany stale: %v", err)
	}

	loaded, err := recordRepo.GetByID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(loaded.Measurements) != 1 {
		t.Fatalf("preload returned %d measurements, want 1", len(loaded.Measurements))
	}

	if err := measurementRepo.DeleteUncorrectedOCR(ctx, tx, record.ID); err != nil {
		t.Fatalf("DeleteUncorrectedOCR: %v", err)
	}
	freshRaw := "72.5"
	if err := measurementRepo.CreateMany(ctx, tx, []*types.Measurement{{
		ID:            uuid.New(),
		StageRecordID: record.ID,
		FieldID:       fieldID,
		Value:         freshRaw,
		OCRRawValue:   &freshRaw,
	}}); err != nil {
		t.Fatalf("CreateMany fresh: %v", err)
	}

	loaded.OCRStatus = types.OCRCompleted
	if err := recordRepo.Update(ctx, tx, loaded); err != nil {
		t.Fatalf("Update with preloaded measurements: %v", err)
	}

	measurements, err := measurementRepo.GetByStageRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByStageRecordID: %v", err)
	}
	if len(measurements) != 1 {
		t.Fatalf("got %d measurements after re-run, want 1", len(measurements))
	}
	if measurements[0].Value != freshRaw {
		t.Fatalf("value=%s, want the fresh reading %s", measurements[0].Value, freshRaw)
	}
}

func TestStageRecordRepoCountByBatchID(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250142-"+product.Code+"-001")
	repo := NewStageRecordRepo(testDB, testLog)

	records := []*types.StageRecord{
		{ID: uuid.New(), BatchID: batch.ID, StageID: uuid.New(), OCRStatus: types.OCRPending},
		{ID: uuid.New(), BatchID: batch.ID, StageID: uuid.New(), OCRStatus: types.OCRPending},
		{ID: uuid.New(), BatchID: batch.ID, StageID: uuid.New(), OCRStatus: types.OCRPending},
	}
	if _, err := repo.CreateMany(ctx, tx, records); err != nil {
		t.Fatalf("CreateMany: %v", err)
	}

	count, err := repo.CountByBatchID(ctx, tx, batch.ID)
	if err != nil {
		t.Fatalf("CountByBatchID: %v", err)
	}
	if count != 3 {
		t.Fatalf("count=%d, want 3", count)
	}
}
