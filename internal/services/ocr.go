package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/clients/gcp"
	"github.com/yungbote/doktrace-backend/internal/clients/openai"
	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// OCRService runs structured extraction over a stage record's form photos
// and reconciles the readings into measurements.
type OCRService interface {
	IngestStageRecord(ctx context.Context, recordID uuid.UUID) (*types.StageRecord, error)
}

type photoExtraction struct {
	PhotoURL   string               `json:"photoUrl"`
	Readings   []photoReading       `json:"readings"`
	Transcript *gcp.VisionOCRResult `json:"transcript,omitempty"`
}

type photoReading struct {
	FieldID    uuid.UUID `json:"fieldId"`
	RawValue   string    `json:"rawValue"`
	Confidence float64   `json:"confidence"`
}

type ocrService struct {
	db              *gorm.DB
	log             *logger.Logger
	openaiClient    openai.Client
	vision          gcp.Vision
	bucketService   gcp.BucketService
	batchRepo       repos.BatchRepo
	stageRecordRepo repos.StageRecordRepo
	measurementRepo repos.MeasurementRepo
}

func NewOCRService(
	db *gorm.DB,
	baseLog *logger.Logger,
	openaiClient openai.Client,
	vision gcp.Vision,
	bucketService gcp.BucketService,
	batchRepo repos.BatchRepo,
	stageRecordRepo repos.StageRecordRepo,
	measurementRepo repos.MeasurementRepo,
) OCRService {
	serviceLog := baseLog.With("service", "OCRService")
	return &ocrService{
		db:              db,
		log:             serviceLog,
		openaiClient:    openaiClient,
		vision:          vision,
		bucketService:   bucketService,
		batchRepo:       batchRepo,
		stageRecordRepo: stageRecordRepo,
		measurementRepo: measurementRepo,
	}
}

// MergeReadings keeps a single reading per field across all photos of one
// stage: highest confidence wins, ties keep the first one seen. Result order
// follows first appearance.
func MergeReadings(perPhoto [][]openai.FieldReading) []openai.FieldReading {
	best := map[uuid.UUID]int{}
	merged := []openai.FieldReading{}
	for _, readings := range perPhoto {
		for _, r := range readings {
			idx, seen := best[r.FieldID]
			if !seen {
				best[r.FieldID] = len(merged)
				merged = append(merged, r)
				continue
			}
			if r.Confidence > merged[idx].Confidence {
				merged[idx] = r
			}
		}
	}
	return merged
}

func (s *ocrService) IngestStageRecord(ctx context.Context, recordID uuid.UUID) (*types.StageRecord, error) {
	record, err := s.stageRecordRepo.GetByID(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}

	photoURLs := []string{}
	if len(record.FormPhotoUrls) > 0 {
		if err := json.Unmarshal(record.FormPhotoUrls, &photoURLs); err != nil {
			return nil, fmt.Errorf("decode photo urls: %w", err)
		}
	}
	if len(photoURLs) == 0 {
		return nil, apperrors.NewValidationError().Add("photos", "no form photos uploaded for this stage")
	}

	batch, err := s.batchRepo.GetByID(ctx, nil, record.BatchID)
	if err != nil {
		return nil, err
	}
	snapshot, err := decodeSnapshot(batch)
	if err != nil {
		return nil, err
	}
	stage := snapshot.Stage(record.StageID)
	if stage == nil {
		return nil, &apperrors.ConfigurationError{
			Key:    "stage:" + record.StageID.String(),
			Reason: "stage not present in batch flow snapshot",
		}
	}
	if len(stage.Fields) == 0 {
		return nil, &apperrors.ConfigurationError{
			Key:    "stage:" + record.StageID.String(),
			Reason: "stage has no fields in the flow snapshot",
		}
	}

	formFields := make([]openai.FormField, 0, len(stage.Fields))
	for _, f := range stage.Fields {
		formFields = append(formFields, openai.FormField{
			FieldID:   f.FieldID,
			Name:      f.Name,
			LabelEn:   f.LabelEn,
			FieldType: f.FieldType,
			Unit:      f.Unit,
		})
	}

	if err := s.stageRecordRepo.UpdateOCRStatus(ctx, nil, record.ID, types.OCRProcessing); err != nil {
		return nil, err
	}

	// Extraction happens outside any transaction: each call can take
	// seconds, and a failure must leave a FAILED flag, not a dangling
	// PROCESSING row.
	perPhoto, rawResults, err := s.extractAll(ctx, photoURLs, formFields)
	if err != nil {
		if stErr := s.stageRecordRepo.UpdateOCRStatus(ctx, nil, record.ID, types.OCRFailed); stErr != nil {
			s.log.Error("Failed to flag OCR failure", "stage_record_id", record.ID, "error", stErr)
		}
		s.log.Error("OCR extraction failed", "stage_record_id", record.ID, "error", err)
		return nil, &apperrors.ExternalServiceError{Service: "ocr", Err: err}
	}

	merged := MergeReadings(perPhoto)

	avg := 0.0
	if len(merged) > 0 {
		sum := 0.0
		for _, r := range merged {
			sum += r.Confidence
		}
		avg = math.Round(sum/float64(len(merged))*100) / 100
	}

	rawJSON, err := json.Marshal(rawResults)
	if err != nil {
		return nil, fmt.Errorf("marshal ocr raw result: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A re-run replaces untouched OCR rows; corrected rows survive.
		if err := s.measurementRepo.DeleteUncorrectedOCR(ctx, tx, record.ID); err != nil {
			return err
		}
		measurements := make([]*types.Measurement, 0, len(merged))
		for _, r := range merged {
			raw := r.RawValue
			conf := r.Confidence
			measurements = append(measurements, &types.Measurement{
				ID:            uuid.New(),
				StageRecordID: record.ID,
				FieldID:       r.FieldID,
				Value:         raw,
				OCRRawValue:   &raw,
				OCRConfidence: &conf,
			})
		}
		if err := s.measurementRepo.CreateMany(ctx, tx, measurements); err != nil {
			return err
		}

		record.OCRStatus = types.OCRCompleted
		record.OCRConfidenceAvg = &avg
		record.OCRRawResult = rawJSON
		return s.stageRecordRepo.Update(ctx, tx, record)
	})
	if err != nil {
		if stErr := s.stageRecordRepo.UpdateOCRStatus(ctx, nil, record.ID, types.OCRFailed); stErr != nil {
			s.log.Error("Failed to flag OCR failure", "stage_record_id", record.ID, "error", stErr)
		}
		return nil, err
	}

	s.log.Info("OCR ingestion completed",
		"stage_record_id", record.ID,
		"photos", len(photoURLs),
		"fields_extracted", len(merged),
		"confidence_avg", avg,
	)
	return record, nil
}

func (s *ocrService) extractAll(ctx context.Context, photoURLs []string, fields []openai.FormField) ([][]openai.FieldReading, []photoExtraction, error) {
	perPhoto := make([][]openai.FieldReading, 0, len(photoURLs))
	rawResults := make([]photoExtraction, 0, len(photoURLs))

	for _, photoURL := range photoURLs {
		readings, err := openai.ExtractFormData(ctx, s.openaiClient, photoURL, fields)
		if err != nil {
			return nil, nil, fmt.Errorf("extract %s: %w", photoURL, err)
		}
		perPhoto = append(perPhoto, readings)

		pe := photoExtraction{PhotoURL: photoURL}
		for _, r := range readings {
			pe.Readings = append(pe.Readings, photoReading(r))
		}
		pe.Transcript = s.transcriptBestEffort(ctx, photoURL)
		rawResults = append(rawResults, pe)
	}
	return perPhoto, rawResults, nil
}

// transcriptBestEffort keeps a plain-text Vision transcript of the photo in
// the audit record. Any failure here is logged and ignored.
func (s *ocrService) transcriptBestEffort(ctx context.Context, photoURL string) *gcp.VisionOCRResult {
	if s.vision == nil || s.bucketService == nil {
		return nil
	}
	key, ok := s.bucketService.KeyFromURL(photoURL)
	if !ok {
		return nil
	}
	rc, err := s.bucketService.DownloadFile(ctx, key)
	if err != nil {
		s.log.Warn("Transcript download failed", "photo_url", photoURL, "error", err)
		return nil
	}
	defer rc.Close()
	img, err := io.ReadAll(rc)
	if err != nil {
		s.log.Warn("Transcript read failed", "photo_url", photoURL, "error", err)
		return nil
	}
	result, err := s.vision.OCRImageBytes(ctx, img, contentTypeForURL(photoURL))
	if err != nil {
		s.log.Warn("Transcript OCR failed", "photo_url", photoURL, "error", err)
		return nil
	}
	return result
}

func contentTypeForURL(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
