package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/cv-enhancer/internal/logger"
	"github.com/yoockh/cv-enhancer/internal/services"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

func uploadRouter(svc services.UploadService, maxUpload int64) *gin.Engine {
	r := newTestEngine()
	h := NewUploadHandler(svc, maxUpload, "/sign-in", "/sign-out", logger.Discard())
	r.GET("/upload", h.Load)
	r.POST("/upload", h.Act)
	return r
}

func TestLoadAnonymousIsNull(t *testing.T) {
	r := uploadRouter(&fakeUploadSvc{}, 1<<20)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/upload", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `null`, w.Body.String())
}

func TestLoadSignedIn(t *testing.T) {
	svc := &fakeUploadSvc{load: &services.LoaderData{
		UserDBID: "db-1",
		UserCVs:  []services.CVItem{{ID: "cv-1", FileName: "a.pdf", Error: "No extracted data for this CV."}},
	}}
	r := uploadRouter(svc, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	req.Header.Set(testUserHeader, "user_1")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"userDBId": "db-1",
		"userCVs": [{
			"id": "cv-1", "name": "", "fileName": "a.pdf", "mimeType": "", "fileSize": 0,
			"createdAt": "0001-01-01T00:00:00Z", "error": "No extracted data for this CV."
		}]
	}`, w.Body.String())
}

func TestLoadFailure(t *testing.T) {
	r := uploadRouter(&fakeUploadSvc{loadErr: errBoom}, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	req.Header.Set(testUserHeader, "user_1")
	w := serve(r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"INTERNAL","message":"boom"}`, w.Body.String())
}

func TestLoadHTML(t *testing.T) {
	r := uploadRouter(&fakeUploadSvc{}, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/upload?step=1", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Przesyłanie pliku")
	assert.Contains(t, w.Body.String(), `href="/sign-in"`)
}

func TestActTextEcho(t *testing.T) {
	for _, text := range []string{"hello", "", "zażółć\ngęślą"} {
		svc := &fakeUploadSvc{}
		r := uploadRouter(svc, 1<<20)

		w := serve(r, formRequest(url.Values{"userInput": {text}}))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, services.TextSubmission{Value: text}, svc.last())
		assert.Contains(t, w.Body.String(), `"userInput"`)
	}
}

func TestActFile(t *testing.T) {
	svc := &fakeUploadSvc{}
	r := uploadRouter(svc, 1<<20)

	req := multipartRequest(nil, filePart{field: "file", name: "jane.pdf", contentType: "application/pdf", data: pdfBytes})
	req.Header.Set(testUserHeader, "user_1")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.FileSubmission{Data: pdfBytes, FileName: "jane.pdf", MimeType: "application/pdf"}, svc.last())
	assert.JSONEq(t, `{"fileName":"jane.pdf","extractedCV":{"name":"Jane Doe","profession":"","contact":{"email":"","phone":""},"experience":null,"education":null}}`, w.Body.String())
}

func TestActFileSniffsMimeType(t *testing.T) {
	svc := &fakeUploadSvc{}
	r := uploadRouter(svc, 1<<20)

	w := serve(r, multipartRequest(nil, filePart{field: "file", name: "cv", contentType: "application/octet-stream", data: pdfBytes}))

	require.Equal(t, http.StatusOK, w.Code)
	sub, ok := svc.last().(services.FileSubmission)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", sub.MimeType)
}

func TestActSubmissionSelection(t *testing.T) {
	file := filePart{field: "file", name: "a.pdf", contentType: "application/pdf", data: pdfBytes}

	cases := []struct {
		name   string
		fields map[string]string
		files  []filePart
		want   string
	}{
		{"text wins without intent", map[string]string{"userInput": "x"}, []filePart{file}, "text"},
		{"intent file", map[string]string{"userInput": "x", "intent": "file"}, []filePart{file}, "file"},
		{"intent text", map[string]string{"userInput": "x", "intent": "TEXT"}, []filePart{file}, "text"},
		{"intent text without field", map[string]string{"intent": "text"}, []filePart{file}, "unsupported"},
		{"intent file without file", map[string]string{"intent": "file", "userInput": "x"}, nil, "unsupported"},
		{"unknown intent", map[string]string{"intent": "audio", "userInput": "x"}, nil, "unsupported"},
		{"file key without a file part", map[string]string{"file": "not a file"}, nil, "file"},
		{"nothing", map[string]string{"other": "x"}, nil, "unsupported"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeUploadSvc{}
			r := uploadRouter(svc, 1<<20)

			w := serve(r, multipartRequest(tc.fields, tc.files...))
			require.Equal(t, http.StatusOK, w.Code)

			switch tc.want {
			case "text":
				assert.IsType(t, services.TextSubmission{}, svc.last())
			case "file":
				assert.IsType(t, services.FileSubmission{}, svc.last())
			default:
				assert.IsType(t, services.UnsupportedSubmission{}, svc.last())
				assert.JSONEq(t, `{"error":"Nieobsługiwany formularz"}`, w.Body.String())
			}
		})
	}
}

func TestActEmptyFileInput(t *testing.T) {
	for _, intent := range []string{"", "file"} {
		svc := &fakeUploadSvc{}
		r := uploadRouter(svc, 1<<20)

		var fields map[string]string
		if intent != "" {
			fields = map[string]string{"intent": intent}
		}
		req := multipartRequest(fields, filePart{field: "file", name: "", contentType: "application/octet-stream"})
		req.Header.Set(testUserHeader, "user_1")
		w := serve(r, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, services.FileSubmission{MimeType: "application/octet-stream"}, svc.last())
		assert.JSONEq(t, `{"error":"Extracting text from CV failed."}`, w.Body.String())
	}
}

func TestParseSubmissionTooLargeCode(t *testing.T) {
	h := NewUploadHandler(&fakeUploadSvc{}, 8, "", "", logger.Discard())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(nil, filePart{field: "file", name: "big.pdf", contentType: "application/pdf", data: pdfBytes})

	sub, err := h.parseSubmission(c)
	assert.Nil(t, sub)
	assert.True(t, utils.IsCode(err, utils.CodeTooLarge))
	assert.Equal(t, services.MsgFileTooLarge, h.formErrorMessage(err))
	assert.Equal(t, services.MsgUnsupportedForm, h.formErrorMessage(utils.E(utils.CodeInternal, "test", "read", nil)))
}

func TestActEmptyBody(t *testing.T) {
	svc := &fakeUploadSvc{}
	r := uploadRouter(svc, 1<<20)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/upload", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":"Nieobsługiwany formularz"}`, w.Body.String())
}

func TestActFileTooLarge(t *testing.T) {
	svc := &fakeUploadSvc{}
	r := uploadRouter(svc, 8)

	w := serve(r, multipartRequest(nil, filePart{field: "file", name: "big.pdf", contentType: "application/pdf", data: pdfBytes}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":"File is too large."}`, w.Body.String())
	assert.Nil(t, svc.last())
}

func TestActHTMLReloadsLoader(t *testing.T) {
	svc := &fakeUploadSvc{load: &services.LoaderData{
		UserDBID: "db-1",
		UserCVs:  []services.CVItem{{ID: "cv-9", FileName: "stored.pdf", Error: "No extracted data for this CV."}},
	}}
	r := uploadRouter(svc, 1<<20)

	req := multipartRequest(map[string]string{"intent": "file", "step": "2"},
		filePart{field: "file", name: "jane.pdf", contentType: "application/pdf", data: pdfBytes})
	req.Header.Set(testUserHeader, "user_1")
	req.Header.Set("Accept", "text/html")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Trzeci ekran")
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "/upload/cvs/cv-9/file")
	assert.Equal(t, 1, svc.loads)
}
