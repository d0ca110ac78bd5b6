package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/cv-enhancer/internal/models"
	"github.com/yoockh/cv-enhancer/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	// CreateFromClerk inserts the user unless one already exists for clerkID and returns the stored row.
	// created reports whether this call inserted it.
	CreateFromClerk(ctx context.Context, clerkID, email string, name *string) (u *models.User, created bool, err error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("clerk_id = ?", clerkID).
		Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) CreateFromClerk(ctx context.Context, clerkID, email string, name *string) (*models.User, bool, error) {
	now := time.Now().UTC()
	u := &models.User{
		ID:        uuid.NewString(),
		ClerkID:   clerkID,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// a concurrent first visit may win the insert; read back whichever row exists
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clerk_id"}},
			DoNothing: true,
		}).
		Create(u)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return u, true, nil
	}

	existing, err := r.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
