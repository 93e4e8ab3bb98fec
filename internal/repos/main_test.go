package repos

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// Repo tests run against a real Postgres set via TEST_POSTGRES_DSN and are
// skipped otherwise. Each test runs inside a transaction that is rolled back,
// so the database stays clean between tests.

var (
	testDBOnce sync.Once
	testDB     *gorm.DB
	testDBErr  error
	testLog    *logger.Logger
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	testDBOnce.Do(func() {
		testLog, testDBErr = logger.New("development")
		if testDBErr != nil {
			return
		}
		testDB, testDBErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if testDBErr != nil {
			return
		}
		testDBErr = testDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
		if testDBErr != nil {
			return
		}
		testDBErr = testDB.AutoMigrate(
			&types.User{},
			&types.Supplier{},
			&types.Product{},
			&types.Flavour{},
			&types.ProcessStage{},
			&types.StageField{},
			&types.Batch{},
			&types.StageRecord{},
			&types.Measurement{},
			&types.QCApproval{},
			&types.Alert{},
			&types.BatchFlavourSplit{},
			&types.AuditLog{},
		)
	})
	if testDBErr != nil {
		t.Fatalf("test db setup: %v", testDBErr)
	}
	return testDB
}

// testTx begins a transaction handed to repo calls and rolled back on cleanup.
func testTx(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func seedUser(t *testing.T, tx *gorm.DB) *types.User {
	t.Helper()
	repo := NewUserRepo(testDB, testLog)
	user, err := repo.Create(context.Background(), tx, &types.User{
		ID:       uuid.New(),
		Name:     "Test Operator",
		Email:    uuid.New().String() + "@example.com",
		Password: "x",
		Role:     types.RoleOperator,
		Active:   true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, tx *gorm.DB, flavourRequired bool) *types.Product {
	t.Helper()
	repo := NewProductRepo(testDB, testLog)
	product, err := repo.Create(context.Background(), tx, &types.Product{
		ID:              uuid.New(),
		Name:            "Khakhra Plain",
		Code:            "T" + uuid.New().String()[:7],
		FlavourRequired: flavourRequired,
		Active:          true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedBatch(t *testing.T, tx *gorm.DB, product *types.Product, user *types.User, code string) *types.Batch {
	t.Helper()
	repo := NewBatchRepo(testDB, testLog)
	batch, err := repo.Create(context.Background(), tx, &types.Batch{
		ID:           uuid.New(),
		ProductID:    product.ID,
		BatchCode:    code,
		Status:       types.BatchCreated,
		FlowSnapshot: []byte("[]"),
		CreatedByID:  user.ID,
	})
	if err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	return batch
}

func seedStageRecord(t *testing.T, tx *gorm.DB, batch *types.Batch) *types.StageRecord {
	t.Helper()
	repo := NewStageRecordRepo(testDB, testLog)
	records, err := repo.CreateMany(context.Background(), tx, []*types.StageRecord{{
		ID:        uuid.New(),
		BatchID:   batch.ID,
		StageID:   uuid.New(),
		OCRStatus: types.OCRPending,
	}})
	if err != nil {
		t.Fatalf("seed stage record: %v", err)
	}
	return records[0]
}
