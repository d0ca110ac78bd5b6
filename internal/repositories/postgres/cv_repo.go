package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/cv-enhancer/internal/models"
	"github.com/yoockh/cv-enhancer/internal/utils"
	"gorm.io/gorm"
)

type CVRepository interface {
	Save(ctx context.Context, cv *models.CV) error
	ListByUser(ctx context.Context, userID string) ([]models.CV, error)
	GetByID(ctx context.Context, id string) (*models.CV, error)
	SetFilePath(ctx context.Context, id, path string) error
}

type cvRepo struct {
	db *gorm.DB
}

func NewCVRepo(db *gorm.DB) CVRepository {
	return &cvRepo{db: db}
}

func (r *cvRepo) Save(ctx context.Context, cv *models.CV) error {
	return r.db.WithContext(ctx).Create(cv).Error
}

// ListByUser returns the user's CVs in upload order, without file bytes.
func (r *cvRepo) ListByUser(ctx context.Context, userID string) ([]models.CV, error) {
	var rows []models.CV
	err := r.db.WithContext(ctx).
		Omit("file_buffer").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *cvRepo) GetByID(ctx context.Context, id string) (*models.CV, error) {
	var row models.CV
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *cvRepo) SetFilePath(ctx context.Context, id, path string) error {
	res := r.db.WithContext(ctx).
		Model(&models.CV{}).
		Where("id = ?", id).
		Update("file_path", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
