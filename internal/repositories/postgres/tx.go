package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Repos groups the repositories bound to one connection or transaction.
type Repos struct {
	Users UserRepository
	CVs   CVRepository
}

type Transactor interface {
	// WithTx runs fn inside one transaction; a returned error rolls everything back.
	WithTx(ctx context.Context, fn func(r Repos) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithTx(ctx context.Context, fn func(r Repos) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Users: NewUserRepo(tx),
			CVs:   NewCVRepo(tx),
		})
	})
}
