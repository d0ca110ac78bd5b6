package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/cv-enhancer/internal/logger"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

func TestResolveRequiresIdentity(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil, logger.Discard())

	_, err := svc.Resolve(context.Background(), nil)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = svc.Resolve(context.Background(), &identity.Identity{})
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}

func TestResolveCopiesProfileOnCreate(t *testing.T) {
	repo := newFakeUserRepo()
	name := "Jane Doe"
	svc := NewUserService(repo, nil, logger.Discard())

	u, err := svc.Resolve(context.Background(), &identity.Identity{UserID: "user_1", Email: "j@x.com", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "user_1", u.ClerkID)
	assert.Equal(t, "j@x.com", u.Email)
	require.NotNil(t, u.Name)
	assert.Equal(t, name, *u.Name)
}

func TestResolveConcurrentFirstVisits(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{}
	svc := NewUserService(repo, pub, logger.Discard())
	id := &identity.Identity{UserID: "user_race"}

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := svc.Resolve(context.Background(), id)
			if err == nil {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, repo.creates)
	for _, v := range ids {
		assert.Equal(t, ids[0], v)
	}
	assert.Len(t, pub.types(), 1)
}

func TestResolveLookupError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("timeout")

	_, err := NewUserService(repo, nil, logger.Discard()).Resolve(context.Background(), &identity.Identity{UserID: "u"})
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
	assert.Equal(t, 0, repo.creates)
}
