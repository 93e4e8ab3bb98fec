package services

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
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// Service tests run against a real Postgres set via TEST_POSTGRES_DSN and are
// skipped otherwise. Every service and repo in a test is bound to one
// transaction that is rolled back on cleanup; the services' own transactions
// become savepoints inside it.

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

// engine wires the services under test onto one rollback transaction.
type engine struct {
	tx *gorm.DB

	users        repos.UserRepo
	flavours     repos.FlavourRepo
	stages       repos.ProcessStageRepo
	batches      repos.BatchRepo
	records      repos.StageRecordRepo
	measurements repos.MeasurementRepo
	approvals    repos.QCApprovalRepo
	alerts       repos.AlertRepo
	splits       repos.FlavourSplitRepo

	batch       BatchService
	measurement MeasurementService
	qc          QCService
	catalog     CatalogService
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	tx := testTx(t)

	userRepo := repos.NewUserRepo(tx, testLog)
	supplierRepo := repos.NewSupplierRepo(tx, testLog)
	productRepo := repos.NewProductRepo(tx, testLog)
	flavourRepo := repos.NewFlavourRepo(tx, testLog)
	stageRepo := repos.NewProcessStageRepo(tx, testLog)
	fieldRepo := repos.NewStageFieldRepo(tx, testLog)
	batchRepo := repos.NewBatchRepo(tx, testLog)
	stageRecordRepo := repos.NewStageRecordRepo(tx, testLog)
	measurementRepo := repos.NewMeasurementRepo(tx, testLog)
	qcApprovalRepo := repos.NewQCApprovalRepo(tx, testLog)
	alertRepo := repos.NewAlertRepo(tx, testLog)
	flavourSplitRepo := repos.NewFlavourSplitRepo(tx, testLog)
	auditLogRepo := repos.NewAuditLogRepo(tx, testLog)

	auditService := NewAuditService(tx, testLog, auditLogRepo)
	snapshotService := NewSnapshotService(tx, testLog, stageRepo)

	return &engine{
		tx:           tx,
		users:        userRepo,
		flavours:     flavourRepo,
		stages:       stageRepo,
		batches:      batchRepo,
		records:      stageRecordRepo,
		measurements: measurementRepo,
		approvals:    qcApprovalRepo,
		alerts:       alertRepo,
		splits:       flavourSplitRepo,
		batch: NewBatchService(tx, testLog, snapshotService, auditService,
			productRepo, flavourRepo, supplierRepo, batchRepo, stageRecordRepo,
			measurementRepo, qcApprovalRepo, alertRepo, flavourSplitRepo),
		measurement: NewMeasurementService(tx, testLog, auditService,
			batchRepo, stageRecordRepo, measurementRepo, alertRepo),
		qc: NewQCService(tx, testLog, auditService, userRepo, batchRepo,
			stageRecordRepo, measurementRepo, qcApprovalRepo, alertRepo),
		catalog: NewCatalogService(tx, testLog, auditService, supplierRepo,
			productRepo, flavourRepo, stageRepo, fieldRepo),
	}
}

// seedFlow creates an operator, a flavour-deferred product and one QC-gate
// stage holding a NUMBER field bounded to [60, 80].
func seedFlow(t *testing.T, e *engine) (*types.User, *types.Product, *types.ProcessStage, *types.StageField) {
	t.Helper()
	ctx := context.Background()

	user, err := e.users.Create(ctx, e.tx, &types.User{
		ID:       uuid.New(),
		Name:     "Asha Patel",
		Email:    uuid.New().String() + "@example.com",
		Password: "x",
		Role:     types.RoleOperator,
		Active:   true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	product, err := repos.NewProductRepo(e.tx, testLog).Create(ctx, e.tx, &types.Product{
		ID:              uuid.New(),
		Name:            "Khakhra Plain",
		Code:            "T" + uuid.New().String()[:7],
		FlavourRequired: false,
		Active:          true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	stage, err := e.stages.Create(ctx, e.tx, &types.ProcessStage{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Roasting",
		Order:     1,
		IsQcGate:  true,
		Version:   1,
		Active:    true,
	})
	if err != nil {
		t.Fatalf("seed stage: %v", err)
	}

	field := &types.StageField{
		ID:        uuid.New(),
		StageID:   stage.ID,
		Name:      "Temperature",
		LabelEn:   "Temperature",
		FieldType: types.FieldTypeNumber,
		Unit:      "C",
		MinValue:  floatPtr(60),
		MaxValue:  floatPtr(80),
		Order:     1,
		Active:    true,
	}
	if _, err := repos.NewStageFieldRepo(e.tx, testLog).Create(ctx, e.tx, field); err != nil {
		t.Fatalf("seed field: %v", err)
	}

	return user, product, stage, field
}

func createBatch(t *testing.T, e *engine, product *types.Product, user *types.User) (*types.Batch, *types.StageRecord) {
	t.Helper()
	ctx := context.Background()

	batch, err := e.batch.Create(ctx, CreateBatchInput{
		ProductID:   product.ID,
		CreatedByID: user.ID,
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	records, err := e.records.GetByBatchID(ctx, e.tx, batch.ID)
	if err != nil {
		t.Fatalf("load stage records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d stage records, want 1 per snapshot stage", len(records))
	}
	return batch, records[0]
}
