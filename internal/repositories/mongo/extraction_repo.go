package mongo

import (
	"context"
	"time"

	"github.com/yoockh/cv-enhancer/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type ExtractionRepository interface {
	Insert(ctx context.Context, a *models.ExtractionAttempt) error
}

type extractionRepo struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewExtractionRepo(db *mongo.Database, ttl time.Duration) ExtractionRepository {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &extractionRepo{col: db.Collection("extraction_attempts"), ttl: ttl}
}

func (r *extractionRepo) Insert(ctx context.Context, a *models.ExtractionAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.ExpiresAt.IsZero() {
		a.ExpiresAt = a.CreatedAt.Add(r.ttl)
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}
