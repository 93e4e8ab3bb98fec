package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/types"
)

func TestBatchRepoUniqueCode(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	repo := NewBatchRepo(testDB, testLog)

	code := "DOK-20250101-" + product.Code + "-001"
	seedBatch(t, tx, product, user, code)

	_, err := repo.Create(ctx, tx, &types.Batch{
		ID:           uuid.New(),
		ProductID:    product.ID,
		BatchCode:    code,
		Status:       types.BatchCreated,
		FlowSnapshot: []byte("[]"),
		CreatedByID:  user.ID,
	})
	if err == nil {
		t.Fatal("expected unique violation on duplicate batch code")
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		t.Fatalf("err=%v, want pg unique violation 23505", err)
	}
}

func TestBatchRepoCountByCodePrefix(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	repo := NewBatchRepo(testDB, testLog)

	prefix := "DOK-20250102-" + product.Code + "-"
	seedBatch(t, tx, product, user, prefix+"001")
	seedBatch(t, tx, product, user, prefix+"002")
	seedBatch(t, tx, product, user, "DOK-20250103-"+product.Code+"-001")

	count, err := repo.CountByCodePrefix(ctx, tx, prefix)
	if err != nil {
		t.Fatalf("CountByCodePrefix: %v", err)
	}
	if count != 2 {
		t.Fatalf("count=%d, want 2", count)
	}
}

func TestBatchRepoGetByIDNotFound(t *testing.T) {
	tx := testTx(t)
	repo := NewBatchRepo(testDB, testLog)

	_, err := repo.GetByID(context.Background(), tx, uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestBatchRepoListFilters(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	other := seedProduct(t, tx, true)
	repo := NewBatchRepo(testDB, testLog)

	a := seedBatch(t, tx, product, user, "DOK-20250104-"+product.Code+"-001")
	seedBatch(t, tx, other, user, "DOK-20250104-"+other.Code+"-001")
	if err := repo.UpdateStatus(ctx, tx, a.ID, types.BatchInProgress); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	byProduct, err := repo.List(ctx, tx, BatchListFilter{ProductID: &product.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byProduct) != 1 || byProduct[0].ID != a.ID {
		t.Fatalf("product filter returned %d batches", len(byProduct))
	}

	status := types.BatchInProgress
	byStatus, err := repo.List(ctx, tx, BatchListFilter{Status: &status})
	if err != nil {
		t.Fatalf("List by status: %v", err)
	}
	for _, b := range byStatus {
		if b.Status != types.BatchInProgress {
			t.Fatalf("status filter leaked batch with status %s", b.Status)
		}
	}
}

func TestBatchRepoSnapshotUntouchedByStatusUpdate(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, true)
	repo := NewBatchRepo(testDB, testLog)

	snapshot := []byte(`[{"stageId":"` + uuid.NewString() + `","name":"Mixing","order":1,"isQcGate":false,"version":2,"fields":[]}]`)
	batch, err := repo.Create(ctx, tx, &types.Batch{
		ID:           uuid.New(),
		ProductID:    product.ID,
		BatchCode:    "DOK-20250105-" + product.Code + "-001",
		Status:       types.BatchCreated,
		FlowSnapshot: snapshot,
		CreatedByID:  user.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateStatus(ctx, tx, batch.ID, types.BatchInProgress); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := repo.UpdateNotes(ctx, tx, batch.ID, "ran hot"); err != nil {
		t.Fatalf("UpdateNotes: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, tx, batch.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if string(reloaded.FlowSnapshot) != string(snapshot) {
		t.Fatalf("snapshot changed after updates:\n got %s\nwant %s", reloaded.FlowSnapshot, snapshot)
	}
	if reloaded.Status != types.BatchInProgress || reloaded.Notes != "ran hot" {
		t.Fatalf("updates not applied: %+v", reloaded)
	}
}
