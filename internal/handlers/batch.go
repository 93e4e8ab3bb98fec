package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/services"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type BatchHandler struct {
	batchService services.BatchService
}

func NewBatchHandler(batchService services.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

type createBatchRequest struct {
	ProductID      uuid.UUID  `json:"product_id"`
	FlavourID      *uuid.UUID `json:"flavour_id"`
	SupplierID     *uuid.UUID `json:"supplier_id"`
	RawMaterialLot string     `json:"raw_material_lot"`
	Notes          string     `json:"notes"`
}

func (bh *BatchHandler) Create(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	batch, err := bh.batchService.Create(c.Request.Context(), services.CreateBatchInput{
		ProductID:      req.ProductID,
		FlavourID:      req.FlavourID,
		SupplierID:     req.SupplierID,
		RawMaterialLot: req.RawMaterialLot,
		Notes:          req.Notes,
		CreatedByID:    currentUserID(c),
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"batch": batch})
}

func (bh *BatchHandler) List(c *gin.Context) {
	filter := repos.BatchListFilter{}
	if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		filter.ProductID = &id
	}
	if v := c.Query("status"); v != "" {
		status := types.BatchStatus(v)
		filter.Status = &status
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	batches, err := bh.batchService.List(c.Request.Context(), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"batches": batches})
}

func (bh *BatchHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	batch, err := bh.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	snapshot, err := bh.batchService.Snapshot(batch)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"batch": batch, "flow_snapshot": snapshot})
}

type transitionRequest struct {
	Status types.BatchStatus `json:"status"`
}

func (bh *BatchHandler) Transition(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	batch, err := bh.batchService.Transition(c.Request.Context(), id, req.Status, currentUserID(c))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"batch": batch})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (bh *BatchHandler) UpdateNotes(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := bh.batchService.UpdateNotes(c.Request.Context(), id, req.Notes, currentUserID(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": true})
}

func (bh *BatchHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := bh.batchService.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
