package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/types"
)

func TestFlavourSplitRepoReplaceForBatch(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, false)
	batch := seedBatch(t, tx, product, user, "DOK-20250130-"+product.Code+"-001")

	flavourRepo := NewFlavourRepo(testDB, testLog)
	mango, err := flavourRepo.Create(ctx, tx, &types.Flavour{
		ID: uuid.New(), ProductID: product.ID, Name: "Mango", Code: "MNG", Active: true,
	})
	if err != nil {
		t.Fatalf("create flavour: %v", err)
	}
	chilli, err := flavourRepo.Create(ctx, tx, &types.Flavour{
		ID: uuid.New(), ProductID: product.ID, Name: "Chilli", Code: "CHL", Active: true,
	})
	if err != nil {
		t.Fatalf("create flavour: %v", err)
	}

	repo := NewFlavourSplitRepo(testDB, testLog)
	if err := repo.ReplaceForBatch(ctx, tx, batch.ID, []*types.BatchFlavourSplit{
		{ID: uuid.New(), BatchID: batch.ID, FlavourID: mango.ID, PackCount: 30},
		{ID: uuid.New(), BatchID: batch.ID, FlavourID: chilli.ID, PackCount: 20},
	}); err != nil {
		t.Fatalf("first ReplaceForBatch: %v", err)
	}

	// A second save fully replaces the first set.
	if err := repo.ReplaceForBatch(ctx, tx, batch.ID, []*types.BatchFlavourSplit{
		{ID: uuid.New(), BatchID: batch.ID, FlavourID: mango.ID, PackCount: 45},
	}); err != nil {
		t.Fatalf("second ReplaceForBatch: %v", err)
	}

	splits, err := repo.ListByBatchID(ctx, tx, batch.ID)
	if err != nil {
		t.Fatalf("ListByBatchID: %v", err)
	}
	if len(splits) != 1 {
		t.Fatalf("got %d splits, want replacement to leave 1", len(splits))
	}
	if splits[0].FlavourID != mango.ID || splits[0].PackCount != 45 {
		t.Fatalf("split=%+v, want mango 45", splits[0])
	}
}

func TestFlavourSplitRepoReplaceWithEmptyClears(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	user := seedUser(t, tx)
	product := seedProduct(t, tx, false)
	batch := seedBatch(t, tx, product, user, "DOK-20250131-"+product.Code+"-001")

	flavourRepo := NewFlavourRepo(testDB, testLog)
	mango, err := flavourRepo.Create(ctx, tx, &types.Flavour{
		ID: uuid.New(), ProductID: product.ID, Name: "Mango", Code: "MNG", Active: true,
	})
	if err != nil {
		t.Fatalf("create flavour: %v", err)
	}

	repo := NewFlavourSplitRepo(testDB, testLog)
	if err := repo.ReplaceForBatch(ctx, tx, batch.ID, []*types.BatchFlavourSplit{
		{ID: uuid.New(), BatchID: batch.ID, FlavourID: mango.ID, PackCount: 10},
	}); err != nil {
		t.Fatalf("ReplaceForBatch: %v", err)
	}
	if err := repo.ReplaceForBatch(ctx, tx, batch.ID, nil); err != nil {
		t.Fatalf("ReplaceForBatch empty: %v", err)
	}

	splits, err := repo.ListByBatchID(ctx, tx, batch.ID)
	if err != nil {
		t.Fatalf("ListByBatchID: %v", err)
	}
	if len(splits) != 0 {
		t.Fatalf("got %d splits, want cleared", len(splits))
	}
}
