package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/services"
)

type Services struct {
	Audit       services.AuditService
	Auth        services.AuthService
	Catalog     services.CatalogService
	Snapshot    services.SnapshotService
	Batch       services.BatchService
	StageRecord services.StageRecordService
	Measurement services.MeasurementService
	OCR         services.OCRService
	QC          services.QCService
	Alert       services.AlertService
	Production  services.ProductionService
	Dashboard   services.DashboardService
	FormRender  services.FormRenderService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auditService := services.NewAuditService(db, log, r.AuditLog)
	authService := services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	catalogService := services.NewCatalogService(db, log, auditService, r.Supplier, r.Product, r.Flavour, r.Stage, r.StageField)
	snapshotService := services.NewSnapshotService(db, log, r.Stage)
	batchService := services.NewBatchService(
		db, log, snapshotService, auditService,
		r.Product, r.Flavour, r.Supplier, r.Batch, r.StageRecord,
		r.Measurement, r.QCApproval, r.Alert, r.FlavourSplit,
	)
	stageRecordService := services.NewStageRecordService(db, log, clients.Bucket, r.StageRecord, r.Batch)
	measurementService := services.NewMeasurementService(db, log, auditService, r.Batch, r.StageRecord, r.Measurement, r.Alert)
	ocrService := services.NewOCRService(db, log, clients.OpenAI, clients.Vision, clients.Bucket, r.Batch, r.StageRecord, r.Measurement)
	qcService := services.NewQCService(db, log, auditService, r.User, r.Batch, r.StageRecord, r.Measurement, r.QCApproval, r.Alert)
	alertService := services.NewAlertService(db, log, auditService, r.Alert)
	productionService := services.NewProductionService(db, log, auditService, r.Product, r.Flavour, r.Batch, r.StageRecord, r.FlavourSplit)
	dashboardService := services.NewDashboardService(db, log, r.Batch, r.Alert)
	formRenderService, err := services.NewFormRenderService(log, r.Batch, r.Product)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Audit:       auditService,
		Auth:        authService,
		Catalog:     catalogService,
		Snapshot:    snapshotService,
		Batch:       batchService,
		StageRecord: stageRecordService,
		Measurement: measurementService,
		OCR:         ocrService,
		QC:          qcService,
		Alert:       alertService,
		Production:  productionService,
		Dashboard:   dashboardService,
		FormRender:  formRenderService,
	}, nil
}
