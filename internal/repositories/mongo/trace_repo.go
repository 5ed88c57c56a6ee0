package mongo

import (
	"context"
	"time"

	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const TraceCollection = "reasoning_traces"

type TraceRepository interface {
	InsertTrace(ctx context.Context, t *models.ReasoningTrace) error
	ListByMessage(ctx context.Context, messageUUID string, limit int64) ([]models.ReasoningTrace, error)
}

type traceRepo struct {
	col *mongo.Collection
}

func NewTraceRepo(db *mongo.Database) TraceRepository {
	return &traceRepo{col: db.Collection(TraceCollection)}
}

func (r *traceRepo) InsertTrace(ctx context.Context, t *models.ReasoningTrace) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	if t.ExpiresAt.IsZero() {
		t.ExpiresAt = t.Timestamp.Add(30 * 24 * time.Hour)
	}
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *traceRepo) ListByMessage(ctx context.Context, messageUUID string, limit int64) ([]models.ReasoningTrace, error) {
	if limit <= 0 {
		limit = 20
	}

	cur, err := r.col.Find(ctx,
		bson.M{"message_uuid": messageUUID},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ReasoningTrace
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
