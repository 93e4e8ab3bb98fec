package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type MeasurementRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, m *types.Measurement) error
	CreateMany(ctx context.Context, tx *gorm.DB, measurements []*types.Measurement) error
	GetByStageRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) ([]*types.Measurement, error)
	DeleteUncorrectedOCR(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error
	FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error
}

type measurementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeasurementRepo(db *gorm.DB, baseLog *logger.Logger) MeasurementRepo {
	repoLog := baseLog.With("repo", "MeasurementRepo")
	return &measurementRepo{db: db, log: repoLog}
}

// Upsert writes at most one row per (stage_record_id, field_id).
func (r *measurementRepo) Upsert(ctx context.Context, tx *gorm.DB, m *types.Measurement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stage_record_id"}, {Name: "field_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"value", "ocr_raw_value", "ocr_confidence", "is_corrected",
				"corrected_from", "recorded_by_id", "updated_at",
			}),
		}).
		Create(m).Error
}

func (r *measurementRepo) CreateMany(ctx context.Context, tx *gorm.DB, measurements []*types.Measurement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(measurements) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Create(&measurements).Error
}

func (r *measurementRepo) GetByStageRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) ([]*types.Measurement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Measurement
	if err := transaction.WithContext(ctx).
		Where("stage_record_id = ?", recordID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteUncorrectedOCR removes OCR-origin rows nobody has touched, so an OCR
// re-run does not stack stale readings. Human-corrected rows stay.
func (r *measurementRepo) DeleteUncorrectedOCR(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("stage_record_id = ? AND ocr_raw_value IS NOT NULL AND is_corrected = ?", recordID, false).
		Delete(&types.Measurement{}).Error
}

func (r *measurementRepo) FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	sub := transaction.Model(&types.StageRecord{}).Select("id").Where("batch_id = ?", batchID)
	return transaction.WithContext(ctx).
		Where("stage_record_id IN (?)", sub).
		Delete(&types.Measurement{}).Error
}
