package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(dbName string) error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoClient.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	traces := db.Collection("reasoning_traces")
	_, err := traces.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// TTL index: expire at ExpiresAt (must be Date)
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_expires_at").
				SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "message_uuid", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("by_message_ts"),
		},
	})
	return err
}
