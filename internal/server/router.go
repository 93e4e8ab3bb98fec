package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/doktrace-backend/internal/handlers"
	"github.com/yungbote/doktrace-backend/internal/middleware"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	CatalogHandler     *handlers.CatalogHandler
	BatchHandler       *handlers.BatchHandler
	StageRecordHandler *handlers.StageRecordHandler
	QCHandler          *handlers.QCHandler
	AlertHandler       *handlers.AlertHandler
	ProductionHandler  *handlers.ProductionHandler
	DashboardHandler   *handlers.DashboardHandler
	FormHandler        *handlers.FormHandler
	AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.GET("/user", cfg.AuthHandler.CurrentUser)

	supervisors := cfg.AuthMiddleware.RequireRole(types.RoleSupervisor)
	admins := cfg.AuthMiddleware.RequireRole()

	// Catalog
	api.GET("/suppliers", cfg.CatalogHandler.ListSuppliers)
	api.POST("/suppliers", supervisors, cfg.CatalogHandler.CreateSupplier)
	api.PUT("/suppliers/:id", supervisors, cfg.CatalogHandler.UpdateSupplier)
	api.DELETE("/suppliers/:id", supervisors, cfg.CatalogHandler.ArchiveSupplier)

	api.GET("/products", cfg.CatalogHandler.ListProducts)
	api.POST("/products", supervisors, cfg.CatalogHandler.CreateProduct)
	api.GET("/products/:id", cfg.CatalogHandler.GetProduct)
	api.PUT("/products/:id", supervisors, cfg.CatalogHandler.UpdateProduct)
	api.DELETE("/products/:id", supervisors, cfg.CatalogHandler.ArchiveProduct)
	api.GET("/products/:id/flavours", cfg.CatalogHandler.ListFlavours)
	api.POST("/products/:id/flavours", supervisors, cfg.CatalogHandler.CreateFlavour)
	api.GET("/products/:id/flow", cfg.CatalogHandler.GetFlow)
	api.POST("/products/:id/stages", supervisors, cfg.CatalogHandler.CreateStage)
	api.PUT("/products/:id/stages/reorder", supervisors, cfg.CatalogHandler.ReorderStages)
	api.DELETE("/flavours/:id", supervisors, cfg.CatalogHandler.ArchiveFlavour)
	api.PUT("/stages/:id", supervisors, cfg.CatalogHandler.UpdateStage)
	api.DELETE("/stages/:id", supervisors, cfg.CatalogHandler.ArchiveStage)
	api.POST("/stages/:id/fields", supervisors, cfg.CatalogHandler.CreateField)
	api.PUT("/stages/:id/fields/reorder", supervisors, cfg.CatalogHandler.ReorderFields)
	api.PUT("/fields/:id", supervisors, cfg.CatalogHandler.UpdateField)
	api.DELETE("/fields/:id", supervisors, cfg.CatalogHandler.ArchiveField)

	// Batches
	api.POST("/batches", cfg.BatchHandler.Create)
	api.GET("/batches", cfg.BatchHandler.List)
	api.GET("/batches/:id", cfg.BatchHandler.Get)
	api.POST("/batches/:id/transition", cfg.BatchHandler.Transition)
	api.PUT("/batches/:id/notes", cfg.BatchHandler.UpdateNotes)
	api.DELETE("/batches/:id", admins, cfg.BatchHandler.Delete)
	api.GET("/batches/:id/stage-records", cfg.StageRecordHandler.ListForBatch)
	api.GET("/batches/:id/alerts", cfg.AlertHandler.ListForBatch)
	api.GET("/batches/:id/forms/:stageId", cfg.FormHandler.RenderStageForm)
	api.GET("/batches/:id/splits", cfg.ProductionHandler.ListSplits)
	api.PUT("/batches/:id/splits", cfg.ProductionHandler.SaveSplits)

	// Stage records
	api.GET("/stage-records/:id", cfg.StageRecordHandler.Get)
	api.POST("/stage-records/:id/photos", cfg.StageRecordHandler.UploadPhotos)
	api.POST("/stage-records/:id/ocr", cfg.StageRecordHandler.RunOCR)
	api.POST("/stage-records/:id/commit", cfg.StageRecordHandler.Commit)
	api.GET("/stage-records/:id/qc", cfg.QCHandler.GetApproval)
	api.GET("/stage-records/:id/qc/evaluate", cfg.QCHandler.Evaluate)
	api.POST("/stage-records/:id/qc", supervisors, cfg.QCHandler.SubmitApproval)

	// Alerts
	api.GET("/alerts", cfg.AlertHandler.ListUnacknowledged)
	api.POST("/alerts/:id/acknowledge", cfg.AlertHandler.Acknowledge)

	// Reporting
	api.GET("/dashboard", cfg.DashboardHandler.Summary)
	api.GET("/products/:id/production", cfg.ProductionHandler.Totals)

	return router
}
