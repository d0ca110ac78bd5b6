package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/yoockh/cv-enhancer/internal/events"
	"github.com/yoockh/cv-enhancer/internal/models"
	pgrepo "github.com/yoockh/cv-enhancer/internal/repositories/postgres"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byClerk map[string]*models.User
	creates int
	getErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byClerk: map[string]*models.User{}}
}

func (r *fakeUserRepo) GetByClerkID(_ context.Context, clerkID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.byClerk[clerkID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) CreateFromClerk(_ context.Context, clerkID, email string, name *string) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byClerk[clerkID]; ok {
		return u, false, nil
	}
	u := &models.User{ID: uuid.NewString(), ClerkID: clerkID, Email: email, Name: name}
	r.byClerk[clerkID] = u
	r.creates++
	return u, true, nil
}

type fakeCVRepo struct {
	mu      sync.Mutex
	rows    []models.CV
	saveErr error
	listErr error
}

func (r *fakeCVRepo) Save(_ context.Context, cv *models.CV) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.rows = append(r.rows, *cv)
	return nil
}

func (r *fakeCVRepo) ListByUser(_ context.Context, userID string) ([]models.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.CV
	for _, cv := range r.rows {
		if cv.UserID == userID {
			cv.FileBuffer = nil
			out = append(out, cv)
		}
	}
	return out, nil
}

func (r *fakeCVRepo) GetByID(_ context.Context, id string) (*models.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			cv := r.rows[i]
			return &cv, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakeCVRepo) SetFilePath(_ context.Context, id, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].FilePath = path
			return nil
		}
	}
	return utils.ErrNotFound
}

func (r *fakeCVRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeTx struct {
	users *fakeUserRepo
	cvs   *fakeCVRepo
}

func (t *fakeTx) WithTx(_ context.Context, fn func(r pgrepo.Repos) error) error {
	return fn(pgrepo.Repos{Users: t.users, CVs: t.cvs})
}

type fakeExtractor struct {
	out   *models.ExtractedCV
	err   error
	block bool
	calls int
}

func (e *fakeExtractor) Extract(ctx context.Context, data []byte, _ string) (*models.ExtractedCV, error) {
	e.calls++
	if e.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}
	return e.out, e.err
}

func (e *fakeExtractor) Close() error { return nil }

type fakeAudit struct {
	mu       sync.Mutex
	attempts []models.ExtractionAttempt
}

func (a *fakeAudit) Insert(_ context.Context, at *models.ExtractionAttempt) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attempts = append(a.attempts, *at)
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, e)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, e := range p.sent {
		out = append(out, e.Type)
	}
	return out
}

type fakeUploader struct {
	err     error
	objects map[string][]byte
}

func (u *fakeUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[objectName] = b
	return "gs://test/" + objectName, nil
}
