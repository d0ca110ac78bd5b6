package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/cv-enhancer/internal/events"
	"github.com/yoockh/cv-enhancer/internal/models"
	"github.com/yoockh/cv-enhancer/internal/providers/extractor"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
	pgrepo "github.com/yoockh/cv-enhancer/internal/repositories/postgres"
	"github.com/yoockh/cv-enhancer/internal/storage"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

// User-facing messages. All of them travel in a 200 response.
const (
	MsgUnsupportedForm  = "Nieobsługiwany formularz"
	MsgExtractionFailed = "Extracting text from CV failed."
	MsgNotAuthenticated = "User not authenticated"
	MsgSaveFailed       = "Saving CV failed."
	MsgFileTooLarge     = "File is too large."
)

type LoaderData struct {
	UserDBID string   `json:"userDBId"`
	UserCVs  []CVItem `json:"userCVs"`
}

// ActionResult is the POST /upload payload; exactly one branch is filled.
type ActionResult struct {
	UserInput   *string             `json:"userInput,omitempty"`
	FileName    string              `json:"fileName,omitempty"`
	ExtractedCV *models.ExtractedCV `json:"extractedCV,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// AuditSink records extraction attempts for operators.
type AuditSink interface {
	Insert(ctx context.Context, a *models.ExtractionAttempt) error
}

type UploadService interface {
	// Load returns nil data for anonymous requests.
	Load(ctx context.Context, id *identity.Identity) (*LoaderData, error)
	Act(ctx context.Context, id *identity.Identity, sub Submission) ActionResult
}

type UploadDeps struct {
	Users      UserService
	CVs        CVService
	Tx         pgrepo.Transactor
	Extractor  extractor.Extractor
	Uploader   storage.Uploader // optional
	Audit      AuditSink        // optional
	Events     events.Publisher // optional
	Logger     *logrus.Logger
	ExtractTTL time.Duration
}

type uploadService struct {
	UploadDeps
}

func NewUploadService(d UploadDeps) UploadService {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.ExtractTTL <= 0 {
		d.ExtractTTL = 90 * time.Second
	}
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &uploadService{UploadDeps: d}
}

func (s *uploadService) Load(ctx context.Context, id *identity.Identity) (*LoaderData, error) {
	if id == nil {
		return nil, nil
	}

	u, err := s.Users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	cvs, err := s.CVs.ListByUser(ctx, u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("clerk_id", id.UserID).Error("loading user cvs failed, returning empty list")
		cvs = []CVItem{}
	}

	return &LoaderData{UserDBID: u.ID, UserCVs: cvs}, nil
}

func (s *uploadService) Act(ctx context.Context, id *identity.Identity, sub Submission) ActionResult {
	switch v := sub.(type) {
	case TextSubmission:
		text := v.Value
		return ActionResult{UserInput: &text}
	case FileSubmission:
		return s.actFile(ctx, id, v)
	default:
		return ActionResult{Error: MsgUnsupportedForm}
	}
}

func (s *uploadService) actFile(ctx context.Context, id *identity.Identity, f FileSubmission) ActionResult {
	log := s.Logger.WithFields(logrus.Fields{
		"file_name": f.FileName,
		"mime_type": f.MimeType,
		"file_size": len(f.Data),
	})

	attempt := &models.ExtractionAttempt{
		FileName: f.FileName,
		MimeType: f.MimeType,
		FileSize: len(f.Data),
	}
	if id != nil {
		attempt.ClerkID = id.UserID
		log = log.WithField("clerk_id", id.UserID)
	}
	defer s.recordAttempt(ctx, attempt, log)

	extracted, err := s.extract(ctx, f, attempt)
	if err != nil {
		log.WithError(err).Error("extracting text from cv failed")
		return ActionResult{Error: MsgExtractionFailed}
	}

	if id == nil {
		return ActionResult{Error: MsgNotAuthenticated}
	}

	cv := &models.CV{
		ID:         uuid.NewString(),
		Name:       displayName(extracted, f.FileName),
		FileName:   f.FileName,
		FileBuffer: f.Data,
		FileSize:   len(f.Data),
		MimeType:   f.MimeType,
		CreatedAt:  time.Now().UTC(),
	}
	if err := cv.SetExtracted(extracted); err != nil {
		log.WithError(err).Error("encoding extracted cv failed")
		return ActionResult{Error: MsgSaveFailed}
	}

	var userCreated bool
	err = s.Tx.WithTx(ctx, func(r pgrepo.Repos) error {
		u, created, err := resolveUser(ctx, r.Users, id)
		if err != nil {
			return err
		}
		userCreated = created
		cv.UserID = u.ID
		return r.CVs.Save(ctx, cv)
	})
	if err != nil {
		log.WithError(err).Error("saving cv failed")
		return ActionResult{Error: MsgSaveFailed}
	}
	attempt.CVID = cv.ID

	if path := s.storeObject(ctx, id.UserID, cv, log); path != "" {
		if err := s.CVs.SetObjectPath(ctx, cv.ID, path); err != nil {
			log.WithError(err).Warn("recording object path failed")
		}
	}

	if userCreated {
		publish(ctx, s.Events, s.Logger, id.UserID, events.Event{Type: events.TypeUserCreated})
	}
	publish(ctx, s.Events, s.Logger, id.UserID, events.Event{Type: events.TypeCVSaved, CVID: cv.ID})

	log.WithField("cv_id", cv.ID).Info("cv saved")
	return ActionResult{FileName: f.FileName, ExtractedCV: extracted}
}

// extract bounds the provider call with the configured timeout and fills the attempt outcome.
// Errors carry CodeTimeout or CodeExtraction.
func (s *uploadService) extract(ctx context.Context, f FileSubmission, attempt *models.ExtractionAttempt) (*models.ExtractedCV, error) {
	const op = "UploadService.extract"

	ctx, cancel := context.WithTimeout(ctx, s.ExtractTTL)
	defer cancel()

	start := time.Now()
	out, err := s.Extractor.Extract(ctx, f.Data, f.MimeType)
	if err == nil && out == nil {
		err = extractor.ErrNoContent
	}
	attempt.DurationMS = time.Since(start).Milliseconds()

	switch {
	case err == nil:
		attempt.Status = models.AttemptOK
	case errors.Is(err, context.DeadlineExceeded):
		attempt.Status = models.AttemptTimeout
		err = utils.E(utils.CodeTimeout, op, "extraction timed out", err)
		attempt.Error = err.Error()
	default:
		attempt.Status = models.AttemptFailed
		err = utils.E(utils.CodeExtraction, op, "extraction failed", err)
		attempt.Error = err.Error()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// storeObject mirrors a committed CV to object storage; failure only costs the mirror.
func (s *uploadService) storeObject(ctx context.Context, clerkID string, cv *models.CV, log *logrus.Entry) string {
	if s.Uploader == nil {
		return ""
	}
	objectName := "cv/" + clerkID + "/" + cv.ID + strings.ToLower(filepath.Ext(cv.FileName))
	path, err := s.Uploader.Upload(ctx, objectName, cv.MimeType, bytes.NewReader(cv.FileBuffer))
	if err != nil {
		log.WithError(err).Warn("object storage upload failed")
		return ""
	}
	return path
}

func (s *uploadService) recordAttempt(ctx context.Context, a *models.ExtractionAttempt, log *logrus.Entry) {
	if s.Audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Audit.Insert(ctx, a); err != nil {
		log.WithError(err).Warn("recording extraction attempt failed")
	}
}

func displayName(e *models.ExtractedCV, fileName string) string {
	if e != nil && strings.TrimSpace(e.Name) != "" {
		return strings.TrimSpace(e.Name)
	}
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
