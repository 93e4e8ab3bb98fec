package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/doktrace-backend/internal/services"
)

type QCHandler struct {
	qcService services.QCService
}

func NewQCHandler(qcService services.QCService) *QCHandler {
	return &QCHandler{qcService: qcService}
}

// Evaluate returns the advisory gate check for a stage record.
func (qh *QCHandler) Evaluate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	failures, err := qh.qcService.Evaluate(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"passed": len(failures) == 0, "failures": failures})
}

type qcSubmissionRequest struct {
	Result        string   `json:"result"`
	TastePass     *bool    `json:"taste_pass"`
	TasteNote     string   `json:"taste_note"`
	TexturePass   *bool    `json:"texture_pass"`
	TextureNote   string   `json:"texture_note"`
	SmellPass     *bool    `json:"smell_pass"`
	SmellNote     string   `json:"smell_note"`
	VisualPass    *bool    `json:"visual_pass"`
	VisualNote    string   `json:"visual_note"`
	WaterActivity *float64 `json:"water_activity"`
	PH            *float64 `json:"ph"`
	Disposition   string   `json:"disposition"`
	Notes         string   `json:"notes"`
}

func (qh *QCHandler) SubmitApproval(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req qcSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	approval, err := qh.qcService.SubmitApproval(c.Request.Context(), id, currentUserID(c), services.QCSubmission{
		Result:        req.Result,
		TastePass:     req.TastePass,
		TasteNote:     req.TasteNote,
		TexturePass:   req.TexturePass,
		TextureNote:   req.TextureNote,
		SmellPass:     req.SmellPass,
		SmellNote:     req.SmellNote,
		VisualPass:    req.VisualPass,
		VisualNote:    req.VisualNote,
		WaterActivity: req.WaterActivity,
		PH:            req.PH,
		Disposition:   req.Disposition,
		Notes:         req.Notes,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"approval": approval})
}

func (qh *QCHandler) GetApproval(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	approval, err := qh.qcService.GetApproval(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"approval": approval})
}
