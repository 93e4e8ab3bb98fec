package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/clients/gcp"
	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type UploadedPhoto struct {
	OriginalName string
	Reader       io.Reader
}

type StageRecordService interface {
	GetByID(ctx context.Context, recordID uuid.UUID) (*types.StageRecord, error)
	GetByBatchID(ctx context.Context, batchID uuid.UUID) ([]*types.StageRecord, error)
	AttachPhotos(ctx context.Context, recordID uuid.UUID, userID uuid.UUID, photos []UploadedPhoto) (*types.StageRecord, error)
}

type stageRecordService struct {
	db              *gorm.DB
	log             *logger.Logger
	bucketService   gcp.BucketService
	stageRecordRepo repos.StageRecordRepo
	batchRepo       repos.BatchRepo
}

func NewStageRecordService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bucketService gcp.BucketService,
	stageRecordRepo repos.StageRecordRepo,
	batchRepo repos.BatchRepo,
) StageRecordService {
	serviceLog := baseLog.With("service", "StageRecordService")
	return &stageRecordService{
		db:              db,
		log:             serviceLog,
		bucketService:   bucketService,
		stageRecordRepo: stageRecordRepo,
		batchRepo:       batchRepo,
	}
}

func (s *stageRecordService) GetByID(ctx context.Context, recordID uuid.UUID) (*types.StageRecord, error) {
	return s.stageRecordRepo.GetByID(ctx, nil, recordID)
}

func (s *stageRecordService) GetByBatchID(ctx context.Context, batchID uuid.UUID) ([]*types.StageRecord, error) {
	return s.stageRecordRepo.GetByBatchID(ctx, nil, batchID)
}

// AttachPhotos uploads form photos and appends their public URLs to the
// record. The first upload marks the stage as started and remembers who
// recorded it. Uploads happen before the row update so a storage failure
// leaves the record untouched.
func (s *stageRecordService) AttachPhotos(ctx context.Context, recordID uuid.UUID, userID uuid.UUID, photos []UploadedPhoto) (*types.StageRecord, error) {
	if len(photos) == 0 {
		return nil, fmt.Errorf("no photos provided")
	}

	record, err := s.stageRecordRepo.GetByID(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	if len(record.FormPhotoUrls) > 0 {
		if err := json.Unmarshal(record.FormPhotoUrls, &urls); err != nil {
			return nil, fmt.Errorf("decode photo urls: %w", err)
		}
	}

	for _, photo := range photos {
		key := fmt.Sprintf("forms/%s/%s/%s%s",
			record.BatchID.String(),
			record.ID.String(),
			uuid.New().String(),
			fileExt(photo.OriginalName),
		)
		if err := s.bucketService.UploadFile(ctx, key, photo.Reader); err != nil {
			return nil, fmt.Errorf("upload photo: %w", err)
		}
		urls = append(urls, s.bucketService.GetPublicURL(key))
	}

	urlsJSON, err := json.Marshal(urls)
	if err != nil {
		return nil, fmt.Errorf("encode photo urls: %w", err)
	}
	record.FormPhotoUrls = urlsJSON
	if record.StartedAt == nil {
		now := time.Now()
		record.StartedAt = &now
		record.RecordedByID = &userID
	}
	if err := s.stageRecordRepo.Update(ctx, nil, record); err != nil {
		return nil, err
	}

	s.log.Info("Photos attached", "stage_record_id", recordID, "photo_count", len(photos))
	return record, nil
}

func fileExt(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
		if name[i] == '/' {
			break
		}
	}
	return ".jpg"
}
