package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/cv-enhancer/internal/api/middleware"
	"github.com/yoockh/cv-enhancer/internal/logger"
	"github.com/yoockh/cv-enhancer/internal/models"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
	"github.com/yoockh/cv-enhancer/internal/services"
	"github.com/yoockh/cv-enhancer/internal/utils"
	"github.com/yoockh/cv-enhancer/internal/web"
)

const testUserHeader = "X-Test-User"

func init() {
	gin.SetMode(gin.TestMode)
}

// headerResolver trusts a plain header; tokens are covered by the identity package.
type headerResolver struct{}

func (headerResolver) Resolve(r *http.Request) (*identity.Identity, error) {
	if v := r.Header.Get(testUserHeader); v != "" {
		return &identity.Identity{UserID: v}, nil
	}
	return nil, nil
}

type fakeUploadSvc struct {
	mu      sync.Mutex
	subs    []services.Submission
	load    *services.LoaderData
	loadErr error
	loads   int
}

func (f *fakeUploadSvc) Load(_ context.Context, id *identity.Identity) (*services.LoaderData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if id == nil {
		return nil, nil
	}
	return f.load, nil
}

func (f *fakeUploadSvc) Act(_ context.Context, id *identity.Identity, sub services.Submission) services.ActionResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, sub)

	switch v := sub.(type) {
	case services.TextSubmission:
		return services.ActionResult{UserInput: &v.Value}
	case services.FileSubmission:
		if len(v.Data) == 0 {
			return services.ActionResult{Error: services.MsgExtractionFailed}
		}
		if id == nil {
			return services.ActionResult{Error: services.MsgNotAuthenticated}
		}
		return services.ActionResult{FileName: v.FileName, ExtractedCV: &models.ExtractedCV{Name: "Jane Doe"}}
	default:
		return services.ActionResult{Error: services.MsgUnsupportedForm}
	}
}

func (f *fakeUploadSvc) last() services.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.subs) == 0 {
		return nil
	}
	return f.subs[len(f.subs)-1]
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Identity(headerResolver{}, logger.Discard()))
	r.SetHTMLTemplate(web.Templates())
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type filePart struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func multipartRequest(fields map[string]string, files ...filePart) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		pw, _ := mw.CreatePart(h)
		_, _ = pw.Write(f.data)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

var errBoom = utils.E(utils.CodeInternal, "test", "boom", nil)
