package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/services"
)

var errNoPhotos = errors.New("at least one photo is required")

type StageRecordHandler struct {
	stageRecordService services.StageRecordService
	measurementService services.MeasurementService
	ocrService         services.OCRService
}

func NewStageRecordHandler(
	stageRecordService services.StageRecordService,
	measurementService services.MeasurementService,
	ocrService services.OCRService,
) *StageRecordHandler {
	return &StageRecordHandler{
		stageRecordService: stageRecordService,
		measurementService: measurementService,
		ocrService:         ocrService,
	}
}

func (sh *StageRecordHandler) ListForBatch(c *gin.Context) {
	batchID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	records, err := sh.stageRecordService.GetByBatchID(c.Request.Context(), batchID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stage_records": records})
}

func (sh *StageRecordHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	record, err := sh.stageRecordService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stage_record": record})
}

// UploadPhotos accepts a multipart form with one or more "photos" files and
// attaches them to the stage record.
func (sh *StageRecordHandler) UploadPhotos(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		RespondError(c, http.StatusBadRequest, "bad_request", errNoPhotos)
		return
	}

	photos := make([]services.UploadedPhoto, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		defer f.Close()
		photos = append(photos, services.UploadedPhoto{OriginalName: fh.Filename, Reader: f})
	}

	record, err := sh.stageRecordService.AttachPhotos(c.Request.Context(), id, currentUserID(c), photos)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stage_record": record})
}

// RunOCR extracts readings from the attached form photos and stores the
// merged best-confidence values as measurements.
func (sh *StageRecordHandler) RunOCR(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	record, err := sh.ocrService.IngestStageRecord(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stage_record": record})
}

type commitEntry struct {
	FieldID       uuid.UUID `json:"field_id"`
	Value         string    `json:"value"`
	OCRRawValue   *string   `json:"ocr_raw_value"`
	IsCorrected   bool      `json:"is_corrected"`
	CorrectedFrom *string   `json:"corrected_from"`
}

type commitRequest struct {
	Measurements []commitEntry `json:"measurements"`
}

// Commit finalizes the stage's reviewed measurements.
func (sh *StageRecordHandler) Commit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	entries := make([]services.MeasurementEntry, 0, len(req.Measurements))
	for _, e := range req.Measurements {
		entries = append(entries, services.MeasurementEntry{
			FieldID:       e.FieldID,
			Value:         e.Value,
			OCRRawValue:   e.OCRRawValue,
			IsCorrected:   e.IsCorrected,
			CorrectedFrom: e.CorrectedFrom,
		})
	}
	record, err := sh.measurementService.CommitStage(c.Request.Context(), id, currentUserID(c), entries)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stage_record": record})
}
