package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/cv-enhancer/internal/api/handlers"
	"github.com/yoockh/cv-enhancer/internal/web"
)

type Deps struct {
	Upload *handlers.UploadHandler
	CV     *handlers.CVHandler
	WS     *handlers.WSHandler
}

// RegisterRoutes expects the identity middleware to be installed on r already.
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.SetHTMLTemplate(web.Templates())

	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/upload")
	})

	r.GET("/upload", d.Upload.Load)
	r.POST("/upload", d.Upload.Act)
	r.GET("/upload/cvs/:id/file", d.CV.Download)

	// WebSocket
	r.GET("/ws/session", d.WS.SessionEvents)
}
