package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	attempts := MongoDatabase().Collection("extraction_attempts")
	_, err := attempts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// expires_at must be a Date
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_expires_at").
				SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "clerk_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_clerk_created"),
		},
	})
	return err
}
