package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/cv-enhancer/internal/events"
	"github.com/yoockh/cv-enhancer/internal/models"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
	pgrepo "github.com/yoockh/cv-enhancer/internal/repositories/postgres"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

type UserService interface {
	// Resolve returns the user linked to the identity, creating it on first sight.
	Resolve(ctx context.Context, id *identity.Identity) (*models.User, error)
}

type userService struct {
	users  pgrepo.UserRepository
	events events.Publisher
	log    *logrus.Logger
}

func NewUserService(users pgrepo.UserRepository, pub events.Publisher, log *logrus.Logger) UserService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &userService{users: users, events: pub, log: log}
}

func (s *userService) Resolve(ctx context.Context, id *identity.Identity) (*models.User, error) {
	u, created, err := resolveUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}
	if created {
		publish(ctx, s.events, s.log, id.UserID, events.Event{Type: events.TypeUserCreated})
	}
	return u, nil
}

// resolveUser is the single lookup-or-create path shared by the loader and the upload action.
func resolveUser(ctx context.Context, users pgrepo.UserRepository, id *identity.Identity) (*models.User, bool, error) {
	const op = "UserService.Resolve"

	if id == nil || id.UserID == "" {
		return nil, false, utils.E(utils.CodeUnauthorized, op, "session identity is required", nil)
	}

	u, err := users.GetByClerkID(ctx, id.UserID)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, false, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}

	u, created, err := users.CreateFromClerk(ctx, id.UserID, id.Email, id.Name)
	if err != nil {
		return nil, false, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return u, created, nil
}

func publish(ctx context.Context, pub events.Publisher, log *logrus.Logger, clerkID string, e events.Event) {
	if err := pub.Publish(ctx, clerkID, e); err != nil && log != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"clerk_id": clerkID,
			"event":    e.Type,
		}).Warn("publish session event failed")
	}
}
