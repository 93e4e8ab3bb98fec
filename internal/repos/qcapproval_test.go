package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/types"
)

func TestQCApprovalRepoAtMostOnePerStageRecord(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250120-"+product.Code+"-001")
	record := seedStageRecord(t, tx, batch)
	repo := NewQCApprovalRepo(testDB, testLog)

	exists, err := repo.ExistsForStageRecord(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("ExistsForStageRecord: %v", err)
	}
	if exists {
		t.Fatal("approval exists before any submission")
	}

	if _, err := repo.Create(ctx, tx, &types.QCApproval{
		ID:            uuid.New(),
		BatchID:       batch.ID,
		StageRecordID: record.ID,
		ApproverID:    user.ID,
		Result:        types.QCResultApproved,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err = repo.ExistsForStageRecord(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("ExistsForStageRecord: %v", err)
	}
	if !exists {
		t.Fatal("approval not visible after create")
	}

	_, err = repo.Create(ctx, tx, &types.QCApproval{
		ID:            uuid.New(),
		BatchID:       batch.ID,
		StageRecordID: record.ID,
		ApproverID:    user.ID,
		Result:        types.QCResultRejected,
	})
	if err == nil {
		t.Fatal("expected unique violation on second approval for the same stage record")
	}
}

func TestQCApprovalRepoListByBatchID(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	batch := seedBatch(t, tx, product, user, "DOK-20250121-"+product.Code+"-001")
	record := seedStageRecord(t, tx, batch)
	repo := NewQCApprovalRepo(testDB, testLog)

	if _, err := repo.Create(ctx, tx, &types.QCApproval{
		ID:            uuid.New(),
		BatchID:       batch.ID,
		StageRecordID: record.ID,
		ApproverID:    user.ID,
		Result:        types.QCResultRejected,
		Disposition:   types.DispositionRework,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	approvals, err := repo.ListByBatchID(ctx, tx, batch.ID)
	if err != nil {
		t.Fatalf("ListByBatchID: %v", err)
	}
	if len(approvals) != 1 || approvals[0].Disposition != types.DispositionRework {
		t.Fatalf("approvals=%+v, want one REWORK rejection", approvals)
	}
}
