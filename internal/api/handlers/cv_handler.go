package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/cv-enhancer/internal/services"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

type CVHandler struct {
	users services.UserService
	cvs   services.CVService
}

func NewCVHandler(users services.UserService, cvs services.CVService) *CVHandler {
	return &CVHandler{users: users, cvs: cvs}
}

// Download sends the stored file back to its owner.
func (h *CVHandler) Download(c *gin.Context) {
	const op = "CVHandler.Download"

	id, ok := requireIdentity(c, op)
	if !ok {
		return
	}

	cvID := c.Param("id")
	if cvID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing cv id", nil))
		return
	}

	u, err := h.users.Resolve(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	cv, err := h.cvs.GetOwned(c.Request.Context(), u.ID, cvID)
	if err != nil {
		writeError(c, err)
		return
	}

	ct := cv.MimeType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": cv.FileName}))
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, ct, cv.FileBuffer)
}
