package postgres

import (
	"context"
	"errors"

	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
	"gorm.io/gorm"
)

type MessageRepository interface {
	GetByUUID(ctx context.Context, messageUUID string) (*models.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) GetByUUID(ctx context.Context, messageUUID string) (*models.Message, error) {
	var row models.Message
	err := r.db.WithContext(ctx).
		Preload("Contents", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("message_uuid = ?", messageUUID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
