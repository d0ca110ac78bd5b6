package services

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/cv-enhancer/internal/models"
	pgrepo "github.com/yoockh/cv-enhancer/internal/repositories/postgres"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

const (
	itemErrNoExtraction = "No extracted data for this CV."
	itemErrUnreadable   = "Stored extracted data is unreadable."
)

// CVItem is one entry of the loader list: it carries either ExtractedCV or Error.
type CVItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileName  string    `json:"fileName"`
	MimeType  string    `json:"mimeType"`
	FileSize  int       `json:"fileSize"`
	CreatedAt time.Time `json:"createdAt"`

	ExtractedCV *models.ExtractedCV `json:"extractedCV,omitempty"`
	Error       string              `json:"error,omitempty"`
}

type CVService interface {
	ListByUser(ctx context.Context, userID string) ([]CVItem, error)
	// GetOwned returns the CV with its bytes when it belongs to userID.
	GetOwned(ctx context.Context, userID, cvID string) (*models.CV, error)
	// SetObjectPath records where the file was mirrored in object storage.
	SetObjectPath(ctx context.Context, cvID, path string) error
}

type cvService struct {
	cvs pgrepo.CVRepository
}

func NewCVService(cvs pgrepo.CVRepository) CVService {
	return &cvService{cvs: cvs}
}

func (s *cvService) ListByUser(ctx context.Context, userID string) ([]CVItem, error) {
	const op = "CVService.ListByUser"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	rows, err := s.cvs.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list cvs", err)
	}

	out := make([]CVItem, 0, len(rows))
	for i := range rows {
		out = append(out, toItem(&rows[i]))
	}
	return out, nil
}

func (s *cvService) GetOwned(ctx context.Context, userID, cvID string) (*models.CV, error) {
	const op = "CVService.GetOwned"

	if userID == "" || cvID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and cv_id are required", nil)
	}

	cv, err := s.cvs.GetByID(ctx, cvID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get cv", err)
	}
	// someone else's CV looks exactly like a missing one
	if cv.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "cv not found", utils.ErrNotFound)
	}
	return cv, nil
}

func (s *cvService) SetObjectPath(ctx context.Context, cvID, path string) error {
	const op = "CVService.SetObjectPath"

	if cvID == "" || path == "" {
		return utils.E(utils.CodeInvalidArgument, op, "cv_id and path are required", nil)
	}
	if err := s.cvs.SetFilePath(ctx, cvID, path); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to update cv", err)
	}
	return nil
}

func toItem(cv *models.CV) CVItem {
	item := CVItem{
		ID:        cv.ID,
		Name:      cv.Name,
		FileName:  cv.FileName,
		MimeType:  cv.MimeType,
		FileSize:  cv.FileSize,
		CreatedAt: cv.CreatedAt,
	}

	extracted, err := cv.Extracted()
	switch {
	case err != nil:
		item.Error = itemErrUnreadable
	case extracted == nil:
		item.Error = itemErrNoExtraction
	default:
		item.ExtractedCV = extracted
	}
	return item
}
