package postgres

import (
	"context"
	"errors"

	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
	"gorm.io/gorm"
)

type SessionRepository interface {
	GetBySessionUUID(ctx context.Context, sessionUUID string) (*models.Session, error)
	// AssignDepartmentIfUnset reports whether this call performed the assignment.
	AssignDepartmentIfUnset(ctx context.Context, sessionUUID string, departmentID int64) (bool, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) GetBySessionUUID(ctx context.Context, sessionUUID string) (*models.Session, error) {
	var row models.Session
	err := r.db.WithContext(ctx).Where("session_uuid = ?", sessionUUID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// single conditional UPDATE; concurrent callers race on the IS NULL predicate
func (r *sessionRepo) AssignDepartmentIfUnset(ctx context.Context, sessionUUID string, departmentID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("session_uuid = ? AND assigned_department_id IS NULL", sessionUUID).
		Update("assigned_department_id", departmentID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
