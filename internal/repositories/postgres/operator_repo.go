package postgres

import (
	"context"

	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"gorm.io/gorm"
)

type OperatorRepository interface {
	// TelegramChatIDs lists the linked chats of a department's active operators.
	TelegramChatIDs(ctx context.Context, departmentID int64) ([]int64, error)
}

type operatorRepo struct {
	db *gorm.DB
}

func NewOperatorRepo(db *gorm.DB) OperatorRepository {
	return &operatorRepo{db: db}
}

func (r *operatorRepo) TelegramChatIDs(ctx context.Context, departmentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.TelegramAdmin{}).
		Distinct("telegram_admins.telegram_chat_id").
		Joins("JOIN admins ON admins.admin_uuid = telegram_admins.admin_uuid").
		Where("admins.department_id = ? AND admins.is_blocked = ? AND admins.is_deleted = ?", departmentID, false, false).
		Order("telegram_admins.telegram_chat_id").
		Pluck("telegram_admins.telegram_chat_id", &ids).Error
	return ids, err
}
