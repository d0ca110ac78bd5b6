package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/cv-enhancer/internal/api/middleware"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.AbortWithStatusJSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.AbortWithStatusJSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireIdentity(c *gin.Context, op string) (*identity.Identity, bool) {
	if id := middleware.IdentityFrom(c); id != nil {
		return id, true
	}

	writeError(c, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil))
	return nil, false
}
