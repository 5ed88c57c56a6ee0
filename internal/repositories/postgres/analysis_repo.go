package postgres

import (
	"context"

	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"gorm.io/gorm"
)

// AnalysisRepository is append-only for the pipeline.
type AnalysisRepository interface {
	InsertInjectResult(ctx context.Context, row *models.InjectResult) error
	InsertAIResult(ctx context.Context, row *models.AIResult) error
	ListAIResults(ctx context.Context, messageUUID string) ([]models.AIResult, error)
	ListInjectResults(ctx context.Context, messageUUID string) ([]models.InjectResult, error)
}

type analysisRepo struct {
	db *gorm.DB
}

func NewAnalysisRepo(db *gorm.DB) AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) InsertInjectResult(ctx context.Context, row *models.InjectResult) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *analysisRepo) InsertAIResult(ctx context.Context, row *models.AIResult) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *analysisRepo) ListAIResults(ctx context.Context, messageUUID string) ([]models.AIResult, error) {
	var rows []models.AIResult
	err := r.db.WithContext(ctx).
		Omit("message_raw_embedding").
		Where("message_uuid = ?", messageUUID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *analysisRepo) ListInjectResults(ctx context.Context, messageUUID string) ([]models.InjectResult, error) {
	var rows []models.InjectResult
	err := r.db.WithContext(ctx).
		Where("message_uuid = ?", messageUUID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
