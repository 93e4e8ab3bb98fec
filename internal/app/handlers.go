package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/doktrace-backend/internal/handlers"
	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/middleware"
	"github.com/yungbote/doktrace-backend/internal/server"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

type Handlers struct {
	Auth        *handlers.AuthHandler
	Catalog     *handlers.CatalogHandler
	Batch       *handlers.BatchHandler
	StageRecord *handlers.StageRecordHandler
	QC          *handlers.QCHandler
	Alert       *handlers.AlertHandler
	Production  *handlers.ProductionHandler
	Dashboard   *handlers.DashboardHandler
	Form        *handlers.FormHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(s.Auth),
		Catalog:     handlers.NewCatalogHandler(s.Catalog),
		Batch:       handlers.NewBatchHandler(s.Batch),
		StageRecord: handlers.NewStageRecordHandler(s.StageRecord, s.Measurement, s.OCR),
		QC:          handlers.NewQCHandler(s.QC),
		Alert:       handlers.NewAlertHandler(s.Alert),
		Production:  handlers.NewProductionHandler(s.Production),
		Dashboard:   handlers.NewDashboardHandler(s.Dashboard),
		Form:        handlers.NewFormHandler(s.FormRender),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, s.Auth),
	}
}

func wireRouter(cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        h.Auth,
		AuthMiddleware:     mw.Auth,
		CatalogHandler:     h.Catalog,
		BatchHandler:       h.Batch,
		StageRecordHandler: h.StageRecord,
		QCHandler:          h.QC,
		AlertHandler:       h.Alert,
		ProductionHandler:  h.Production,
		DashboardHandler:   h.Dashboard,
		FormHandler:        h.Form,
		AllowOrigins:       cfg.AllowOrigins,
	})
}
