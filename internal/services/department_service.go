package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Natenyt/AI-Powered-Government-System/internal/cache"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	pgrepo "github.com/Natenyt/AI-Powered-Government-System/internal/repositories/postgres"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

type DepartmentService interface {
	// Get may serve a cached row up to the cache TTL old.
	Get(ctx context.Context, id int64) (*models.Department, error)
	// GetLive always reads the row and refreshes the cache. Used where the
	// active/deleted flags decide routing.
	GetLive(ctx context.Context, id int64) (*models.Department, error)
	ListIndexable(ctx context.Context) ([]models.Department, error)
}

type departmentService struct {
	departments pgrepo.DepartmentRepository
	cache       cache.Cache
	ttl         time.Duration
	logger      *logrus.Logger
}

// NewDepartmentService caches lookups by id when c is non-nil.
func NewDepartmentService(departments pgrepo.DepartmentRepository, c cache.Cache, ttl time.Duration, l *logrus.Logger) DepartmentService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if l == nil {
		l = logrus.New()
	}
	return &departmentService{departments: departments, cache: c, ttl: ttl, logger: l}
}

func departmentKey(id int64) string { return fmt.Sprintf("department:%d", id) }

func (s *departmentService) Get(ctx context.Context, id int64) (*models.Department, error) {
	const op = "DepartmentService.Get"

	if id <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "department id must be positive", nil)
	}

	if s.cache != nil {
		var cached models.Department
		hit, err := s.cache.GetJSON(ctx, departmentKey(id), &cached)
		if err != nil {
			s.logger.WithError(err).WithField("department_id", id).Warn("department cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	return s.load(ctx, op, id)
}

func (s *departmentService) GetLive(ctx context.Context, id int64) (*models.Department, error) {
	const op = "DepartmentService.GetLive"

	if id <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "department id must be positive", nil)
	}
	return s.load(ctx, op, id)
}

func (s *departmentService) load(ctx context.Context, op string, id int64) (*models.Department, error) {
	d, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			if s.cache != nil {
				_ = s.cache.Del(ctx, departmentKey(id))
			}
			return nil, utils.E(utils.CodeNotFound, op, "department not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get department", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, departmentKey(id), d, s.ttl); err != nil {
			s.logger.WithError(err).WithField("department_id", id).Warn("department cache write failed")
		}
	}
	return d, nil
}

func (s *departmentService) ListIndexable(ctx context.Context) ([]models.Department, error) {
	const op = "DepartmentService.ListIndexable"

	rows, err := s.departments.ListIndexable(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list departments", err)
	}
	return rows, nil
}
