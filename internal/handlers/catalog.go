package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/requestdata"
	"github.com/yungbote/doktrace-backend/internal/services"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func currentUserID(c *gin.Context) uuid.UUID {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return uuid.Nil, false
	}
	return id, true
}

// Suppliers

func (ch *CatalogHandler) CreateSupplier(c *gin.Context) {
	var supplier types.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := ch.catalogService.CreateSupplier(c.Request.Context(), currentUserID(c), &supplier)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"supplier": created})
}

func (ch *CatalogHandler) ListSuppliers(c *gin.Context) {
	activeOnly := c.Query("all") == ""
	suppliers, err := ch.catalogService.ListSuppliers(c.Request.Context(), activeOnly)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"suppliers": suppliers})
}

func (ch *CatalogHandler) UpdateSupplier(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var supplier types.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	supplier.ID = id
	updated, err := ch.catalogService.UpdateSupplier(c.Request.Context(), currentUserID(c), &supplier)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"supplier": updated})
}

func (ch *CatalogHandler) ArchiveSupplier(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.catalogService.ArchiveSupplier(c.Request.Context(), currentUserID(c), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"archived": true})
}

// Products

func (ch *CatalogHandler) CreateProduct(c *gin.Context) {
	var product types.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := ch.catalogService.CreateProduct(c.Request.Context(), currentUserID(c), &product)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"product": created})
}

func (ch *CatalogHandler) ListProducts(c *gin.Context) {
	activeOnly := c.Query("all") == ""
	products, err := ch.catalogService.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"products": products})
}

func (ch *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	product, err := ch.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"product": product})
}

func (ch *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var product types.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	product.ID = id
	updated, err := ch.catalogService.UpdateProduct(c.Request.Context(), currentUserID(c), &product)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"product": updated})
}

func (ch *CatalogHandler) ArchiveProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.catalogService.ArchiveProduct(c.Request.Context(), currentUserID(c), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"archived": true})
}

// Flavours

func (ch *CatalogHandler) CreateFlavour(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var flavour types.Flavour
	if err := c.ShouldBindJSON(&flavour); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	flavour.ProductID = productID
	created, err := ch.catalogService.CreateFlavour(c.Request.Context(), currentUserID(c), &flavour)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"flavour": created})
}

func (ch *CatalogHandler) ListFlavours(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	activeOnly := c.Query("all") == ""
	flavours, err := ch.catalogService.ListFlavours(c.Request.Context(), productID, activeOnly)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"flavours": flavours})
}

func (ch *CatalogHandler) ArchiveFlavour(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.catalogService.ArchiveFlavour(c.Request.Context(), currentUserID(c), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"archived": true})
}

// Stages and fields

func (ch *CatalogHandler) GetFlow(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	stages, err := ch.catalogService.GetFlow(c.Request.Context(), productID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stages": stages})
}

func (ch *CatalogHandler) CreateStage(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var stage types.ProcessStage
	if err := c.ShouldBindJSON(&stage); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	stage.ProductID = productID
	created, err := ch.catalogService.CreateStage(c.Request.Context(), currentUserID(c), &stage)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"stage": created})
}

func (ch *CatalogHandler) UpdateStage(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var stage types.ProcessStage
	if err := c.ShouldBindJSON(&stage); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	stage.ID = id
	updated, err := ch.catalogService.UpdateStage(c.Request.Context(), currentUserID(c), &stage)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stage": updated})
}

func (ch *CatalogHandler) ArchiveStage(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.catalogService.ArchiveStage(c.Request.Context(), currentUserID(c), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"archived": true})
}

type reorderRequest struct {
	OrderedIDs []uuid.UUID `json:"orderedIds"`
}

func (ch *CatalogHandler) ReorderStages(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := ch.catalogService.ReorderStages(c.Request.Context(), currentUserID(c), productID, req.OrderedIDs); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"reordered": true})
}

func (ch *CatalogHandler) ReorderFields(c *gin.Context) {
	stageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := ch.catalogService.ReorderFields(c.Request.Context(), currentUserID(c), stageID, req.OrderedIDs); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"reordered": true})
}

func (ch *CatalogHandler) CreateField(c *gin.Context) {
	stageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var field types.StageField
	if err := c.ShouldBindJSON(&field); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	field.StageID = stageID
	created, err := ch.catalogService.CreateField(c.Request.Context(), currentUserID(c), &field)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"field": created})
}

func (ch *CatalogHandler) UpdateField(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var field types.StageField
	if err := c.ShouldBindJSON(&field); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	field.ID = id
	updated, err := ch.catalogService.UpdateField(c.Request.Context(), currentUserID(c), &field)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"field": updated})
}

func (ch *CatalogHandler) ArchiveField(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.catalogService.ArchiveField(c.Request.Context(), currentUserID(c), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"archived": true})
}
