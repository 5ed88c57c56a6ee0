package postgres

import (
	"context"
	"math"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Natenyt/AI-Powered-Government-System/internal/analysis"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
)

type vectorRepo struct {
	db *gorm.DB
}

// NewVectorRepo stores department vectors in a pgvector column and ranks by cosine distance.
func NewVectorRepo(db *gorm.DB) analysis.VectorIndex {
	return &vectorRepo{db: db}
}

type hitRow struct {
	ID           string
	DepartmentID int64
	Name         string
	Description  string
	Lang         string
	Score        float64
}

func (r *vectorRepo) Query(ctx context.Context, vector []float32, lang string, limit int) ([]analysis.Hit, error) {
	if limit <= 0 {
		limit = analysis.DefaultTopK
	}
	v := pgvector.NewVector(vector)

	q := r.db.WithContext(ctx).
		Model(&models.DepartmentEmbedding{}).
		Select("id, department_id, name, description, lang, 1 - (embedding <=> ?) AS score", v)
	if lang != "" {
		q = q.Where("lang = ?", lang)
	}

	var rows []hitRow
	err := q.Clauses(clause.OrderBy{
		Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []any{v}},
	}).Limit(limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]analysis.Hit, 0, len(rows))
	for _, row := range rows {
		// cosine distance against a zero vector is NaN
		score := row.Score
		if math.IsNaN(score) {
			score = 0
		}
		out = append(out, analysis.Hit{
			ID:           row.ID,
			DepartmentID: row.DepartmentID,
			Name:         row.Name,
			Description:  row.Description,
			Lang:         row.Lang,
			Score:        score,
		})
	}
	return out, nil
}

func (r *vectorRepo) Upsert(ctx context.Context, entries []analysis.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]models.DepartmentEmbedding, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.DepartmentEmbedding{
			ID:           e.ID,
			DepartmentID: e.DepartmentID,
			Lang:         e.Lang,
			Name:         e.Name,
			Description:  e.Description,
			Keywords:     e.Keywords,
			Embedding:    pgvector.NewVector(e.Vector),
			UpdatedAt:    now,
		})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"department_id", "lang", "name", "description", "keywords", "embedding", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *vectorRepo) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.DepartmentEmbedding{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
