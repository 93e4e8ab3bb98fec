package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	Supplier     repos.SupplierRepo
	Product      repos.ProductRepo
	Flavour      repos.FlavourRepo
	Stage        repos.ProcessStageRepo
	StageField   repos.StageFieldRepo
	Batch        repos.BatchRepo
	StageRecord  repos.StageRecordRepo
	Measurement  repos.MeasurementRepo
	QCApproval   repos.QCApprovalRepo
	Alert        repos.AlertRepo
	FlavourSplit repos.FlavourSplitRepo
	AuditLog     repos.AuditLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Supplier:     repos.NewSupplierRepo(db, log),
		Product:      repos.NewProductRepo(db, log),
		Flavour:      repos.NewFlavourRepo(db, log),
		Stage:        repos.NewProcessStageRepo(db, log),
		StageField:   repos.NewStageFieldRepo(db, log),
		Batch:        repos.NewBatchRepo(db, log),
		StageRecord:  repos.NewStageRecordRepo(db, log),
		Measurement:  repos.NewMeasurementRepo(db, log),
		QCApproval:   repos.NewQCApprovalRepo(db, log),
		Alert:        repos.NewAlertRepo(db, log),
		FlavourSplit: repos.NewFlavourSplitRepo(db, log),
		AuditLog:     repos.NewAuditLogRepo(db, log),
	}
}
