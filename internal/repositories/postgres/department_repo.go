package postgres

import (
	"context"
	"errors"

	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
	"gorm.io/gorm"
)

type DepartmentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	ListIndexable(ctx context.Context) ([]models.Department, error)
}

type departmentRepo struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

// GetByID returns the department regardless of its active/deleted flags.
func (r *departmentRepo) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	var row models.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *departmentRepo) ListIndexable(ctx context.Context) ([]models.Department, error) {
	var rows []models.Department
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_deleted = ?", true, false).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
