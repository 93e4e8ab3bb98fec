package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/doktrace-backend/internal/services"
)

type AlertHandler struct {
	alertService services.AlertService
}

func NewAlertHandler(alertService services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (ah *AlertHandler) ListUnacknowledged(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	alerts, err := ah.alertService.ListUnacknowledged(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"alerts": alerts})
}

func (ah *AlertHandler) ListForBatch(c *gin.Context) {
	batchID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	alerts, err := ah.alertService.ListByBatch(c.Request.Context(), batchID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"alerts": alerts})
}

type acknowledgeRequest struct {
	Note string `json:"note"`
}

func (ah *AlertHandler) Acknowledge(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	// Note is optional; an empty body is fine.
	var req acknowledgeRequest
	_ = c.ShouldBindJSON(&req)
	alert, err := ah.alertService.Acknowledge(c.Request.Context(), id, currentUserID(c), req.Note)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"alert": alert})
}
