package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/cv-enhancer/internal/api/middleware"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
	"github.com/yoockh/cv-enhancer/internal/services"
	"github.com/yoockh/cv-enhancer/internal/stepper"
	"github.com/yoockh/cv-enhancer/internal/utils"
	"github.com/yoockh/cv-enhancer/internal/web"
)

const (
	fieldIntent    = "intent"
	fieldUserInput = "userInput"
	fieldFile      = "file"
	fieldStep      = "step"

	intentText = "text"
	intentFile = "file"

	// room for multipart framing and the small text fields around the file
	formOverhead = 1 << 20
)

type UploadHandler struct {
	svc        services.UploadService
	maxUpload  int64
	signInURL  string
	signOutURL string
	log        *logrus.Logger
}

func NewUploadHandler(svc services.UploadService, maxUpload int64, signInURL, signOutURL string, log *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		svc:        svc,
		maxUpload:  maxUpload,
		signInURL:  signInURL,
		signOutURL: signOutURL,
		log:        log,
	}
}

// Load serves GET /upload.
func (h *UploadHandler) Load(c *gin.Context) {
	id := middleware.IdentityFrom(c)

	data, err := h.svc.Load(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	step := stepper.Parse(c.Query(fieldStep))
	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  []string{gin.MIMEJSON, gin.MIMEHTML},
		HTMLName: web.UploadPage,
		HTMLData: web.NewPage(h.session(id), step, data, nil),
		JSONData: data,
	})
}

// Act serves POST /upload. Every outcome is a 200 with the result payload.
func (h *UploadHandler) Act(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	ctx := c.Request.Context()

	var res services.ActionResult
	if sub, err := h.parseSubmission(c); err != nil {
		res = services.ActionResult{Error: h.formErrorMessage(err)}
	} else {
		res = h.svc.Act(ctx, id, sub)
	}

	format := c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML)
	if format != gin.MIMEHTML {
		c.JSON(http.StatusOK, res)
		return
	}

	// the page shows the action result next to freshly loaded data
	data, err := h.svc.Load(ctx, id)
	if err != nil {
		h.log.WithError(err).Error("reloading upload page data failed")
	}
	step := stepper.Parse(c.PostForm(fieldStep))
	c.HTML(http.StatusOK, web.UploadPage, web.NewPage(h.session(id), step, data, &res))
}

// parseSubmission turns the form into a tagged submission. An error ends the
// request before the service runs.
func (h *UploadHandler) parseSubmission(c *gin.Context) (services.Submission, error) {
	const op = "UploadHandler.parseSubmission"

	req := c.Request
	req.Body = http.MaxBytesReader(c.Writer, req.Body, h.maxUpload+formOverhead)

	var err error
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		err = req.ParseMultipartForm(32 << 20)
	} else {
		err = req.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, utils.E(utils.CodeTooLarge, op, "request body too large", err)
		}
		h.log.WithError(err).Debug("unreadable upload form")
		return services.UnsupportedSubmission{}, nil
	}

	text, hasText := req.PostForm[fieldUserInput]
	var fh *multipart.FileHeader
	if req.MultipartForm != nil {
		if files := req.MultipartForm.File[fieldFile]; len(files) > 0 {
			fh = files[0]
		}
	}
	// a file input left empty arrives as a plain value with filename=""
	_, hasFile := req.PostForm[fieldFile]
	hasFile = hasFile || fh != nil

	switch strings.ToLower(strings.TrimSpace(req.PostForm.Get(fieldIntent))) {
	case intentText:
		if hasText {
			return services.TextSubmission{Value: text[0]}, nil
		}
	case intentFile:
		if hasFile {
			return h.readFile(fh)
		}
	case "":
		if hasText {
			return services.TextSubmission{Value: text[0]}, nil
		}
		if hasFile {
			return h.readFile(fh)
		}
	}
	return services.UnsupportedSubmission{}, nil
}

// readFile loads the part into memory. A nil header is the empty file input.
func (h *UploadHandler) readFile(fh *multipart.FileHeader) (services.Submission, error) {
	const op = "UploadHandler.readFile"

	if fh == nil {
		return services.FileSubmission{MimeType: "application/octet-stream"}, nil
	}
	if fh.Size > h.maxUpload {
		return nil, utils.E(utils.CodeTooLarge, op, "file too large", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read upload", err)
	}
	if int64(len(data)) > h.maxUpload {
		return nil, utils.E(utils.CodeTooLarge, op, "file too large", nil)
	}

	return services.FileSubmission{
		Data:     data,
		FileName: fh.Filename,
		MimeType: mimeTypeOf(fh, data),
	}, nil
}

func (h *UploadHandler) formErrorMessage(err error) string {
	if utils.IsCode(err, utils.CodeTooLarge) {
		return services.MsgFileTooLarge
	}
	h.log.WithError(err).Error("reading upload form failed")
	return services.MsgUnsupportedForm
}

func mimeTypeOf(fh *multipart.FileHeader, data []byte) string {
	ct := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(data)
}

func (h *UploadHandler) session(id *identity.Identity) web.SessionView {
	return web.NewSessionView(id, h.signInURL, h.signOutURL)
}
