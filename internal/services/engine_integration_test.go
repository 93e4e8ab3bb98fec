package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/types"
)

func TestCommitStageRaisesRangeAlertAndParksAtGate(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	user, product, _, field := seedFlow(t, e)
	batch, record := createBatch(t, e, product, user)

	if _, err := e.measurement.CommitStage(ctx, record.ID, user.ID, []MeasurementEntry{
		{FieldID: field.ID, Value: "95"},
	}); err != nil {
		t.Fatalf("CommitStage: %v", err)
	}

	alerts, err := e.alerts.ListByBatchID(ctx, e.tx, batch.ID)
	if err != nil {
		t.Fatalf("ListByBatchID: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1 for the out-of-range value", len(alerts))
	}
	if alerts[0].Type != types.AlertOutOfRange || alerts[0].Severity != types.SeverityWarning {
		t.Fatalf("alert=%s/%s, want OUT_OF_RANGE WARNING", alerts[0].Type, alerts[0].Severity)
	}
	if !strings.Contains(alerts[0].Message, "Temperature") {
		t.Fatalf("alert message %q does not name the field", alerts[0].Message)
	}

	reloaded, err := e.batches.GetByID(ctx, e.tx, batch.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Status != types.BatchQcPending {
		t.Fatalf("status=%s, want QC_PENDING after committing a gate stage", reloaded.Status)
	}
}

func TestCommitStageInRangeRaisesNoAlert(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	user, product, _, field := seedFlow(t, e)
	batch, record := createBatch(t, e, product, user)

	if _, err := e.measurement.CommitStage(ctx, record.ID, user.ID, []MeasurementEntry{
		{FieldID: field.ID, Value: "72.5"},
	}); err != nil {
		t.Fatalf("CommitStage: %v", err)
	}

	alerts, err := e.alerts.ListByBatchID(ctx, e.tx, batch.ID)
	if err != nil {
		t.Fatalf("ListByBatchID: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("got %d alerts for an in-range value, want none", len(alerts))
	}
}

func TestQCRejectionFlagsBatchAndRaisesCriticalAlert(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	user, product, _, field := seedFlow(t, e)
	batch, record := createBatch(t, e, product, user)

	if _, err := e.measurement.CommitStage(ctx, record.ID, user.ID, []MeasurementEntry{
		{FieldID: field.ID, Value: "72.5"},
	}); err != nil {
		t.Fatalf("CommitStage: %v", err)
	}

	approval, err := e.qc.SubmitApproval(ctx, record.ID, user.ID, QCSubmission{
		Result:      types.QCResultRejected,
		Disposition: types.DispositionRework,
	})
	if err != nil {
		t.Fatalf("SubmitApproval: %v", err)
	}
	if approval.Result != types.QCResultRejected {
		t.Fatalf("result=%s, want REJECTED", approval.Result)
	}

	reloaded, err := e.batches.GetByID(ctx, e.tx, batch.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Status != types.BatchQcRejected {
		t.Fatalf("status=%s, want QC_REJECTED", reloaded.Status)
	}

	alerts, err := e.alerts.ListByBatchID(ctx, e.tx, batch.ID)
	if err != nil {
		t.Fatalf("ListByBatchID: %v", err)
	}
	var gateFail *types.Alert
	for _, a := range alerts {
		if a.Type == types.AlertGateFail {
			gateFail = a
		}
	}
	if gateFail == nil {
		t.Fatal("no GATE_FAIL alert after rejection")
	}
	if gateFail.Severity != types.SeverityCritical {
		t.Fatalf("severity=%s, want CRITICAL", gateFail.Severity)
	}
	if !strings.Contains(gateFail.Message, types.DispositionRework) ||
		!strings.Contains(gateFail.Message, user.Name) {
		t.Fatalf("message %q missing disposition or approver", gateFail.Message)
	}

	// A second submission for the same stage record must not go through.
	if _, err := e.qc.SubmitApproval(ctx, record.ID, user.ID, QCSubmission{
		Result: types.QCResultApproved,
	}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("second submission err=%v, want ErrConflict", err)
	}
}

func TestBatchDeleteCascadesAcrossChildren(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	user, product, _, field := seedFlow(t, e)
	batch, record := createBatch(t, e, product, user)

	// Populate every child table: a measurement, an out-of-range alert, a
	// rejection approval with its gate alert, and a flavour split.
	if _, err := e.measurement.CommitStage(ctx, record.ID, user.ID, []MeasurementEntry{
		{FieldID: field.ID, Value: "95"},
	}); err != nil {
		t.Fatalf("CommitStage: %v", err)
	}
	if _, err := e.qc.SubmitApproval(ctx, record.ID, user.ID, QCSubmission{
		Result:      types.QCResultRejected,
		Disposition: types.DispositionHold,
	}); err != nil {
		t.Fatalf("SubmitApproval: %v", err)
	}
	flavour, err := e.flavours.Create(ctx, e.tx, &types.Flavour{
		ProductID: product.ID, Name: "Mango", Code: "MNG", Active: true,
	})
	if err != nil {
		t.Fatalf("create flavour: %v", err)
	}
	if err := e.splits.ReplaceForBatch(ctx, e.tx, batch.ID, []*types.BatchFlavourSplit{
		{BatchID: batch.ID, FlavourID: flavour.ID, PackCount: 12},
	}); err != nil {
		t.Fatalf("ReplaceForBatch: %v", err)
	}

	if err := e.batch.Delete(ctx, batch.ID, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := e.batches.GetByID(ctx, e.tx, batch.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("batch lookup err=%v, want ErrNotFound", err)
	}
	if ms, _ := e.measurements.GetByStageRecordID(ctx, e.tx, record.ID); len(ms) != 0 {
		t.Fatalf("%d measurements survived the delete", len(ms))
	}
	if as, _ := e.approvals.ListByBatchID(ctx, e.tx, batch.ID); len(as) != 0 {
		t.Fatalf("%d approvals survived the delete", len(as))
	}
	if rs, _ := e.records.GetByBatchID(ctx, e.tx, batch.ID); len(rs) != 0 {
		t.Fatalf("%d stage records survived the delete", len(rs))
	}
	if als, _ := e.alerts.ListByBatchID(ctx, e.tx, batch.ID); len(als) != 0 {
		t.Fatalf("%d alerts survived the delete", len(als))
	}
	if sps, _ := e.splits.ListByBatchID(ctx, e.tx, batch.ID); len(sps) != 0 {
		t.Fatalf("%d flavour splits survived the delete", len(sps))
	}
}

func TestSnapshotSurvivesCatalogEdit(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	user, product, stage, field := seedFlow(t, e)
	batch, _ := createBatch(t, e, product, user)

	// Widen the live range after the batch froze its snapshot.
	edited := *field
	edited.MaxValue = floatPtr(90)
	if _, err := e.catalog.UpdateField(ctx, user.ID, &edited); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	liveStage, err := e.stages.GetByID(ctx, e.tx, stage.ID)
	if err != nil {
		t.Fatalf("GetByID stage: %v", err)
	}
	if liveStage.Version != 2 {
		t.Fatalf("live stage version=%d, want 2 after the field edit", liveStage.Version)
	}

	reloaded, err := e.batches.GetByID(ctx, e.tx, batch.ID)
	if err != nil {
		t.Fatalf("GetByID batch: %v", err)
	}
	snapshot, err := decodeSnapshot(reloaded)
	if err != nil {
		t.Fatalf("decodeSnapshot: %v", err)
	}
	frozen := snapshot.Stage(stage.ID)
	if frozen == nil {
		t.Fatal("stage missing from snapshot")
	}
	if frozen.Version != 1 {
		t.Fatalf("snapshot version=%d, want the version frozen at creation", frozen.Version)
	}
	frozenField := frozen.Field(field.ID)
	if frozenField == nil || frozenField.MaxValue == nil || *frozenField.MaxValue != 80 {
		t.Fatalf("snapshot field=%+v, want the original 80 upper bound", frozenField)
	}
}
