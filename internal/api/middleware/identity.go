package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
)

const identityKey = "identity"

// Identity resolves the session token on every request. It never aborts:
// a missing or rejected token leaves the request anonymous.
func Identity(res identity.Resolver, l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if res == nil {
			c.Next()
			return
		}

		id, err := res.Resolve(c.Request)
		if err != nil {
			l.WithError(err).WithField("path", c.FullPath()).Debug("session token rejected")
		}
		if id != nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Identity, or nil.
func IdentityFrom(c *gin.Context) *identity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*identity.Identity); ok && id.UserID != "" {
			return id
		}
	}
	return nil
}
