package api

import (
	"net/http"
	"time"

	"service-request-form/internal/cache"
	"service-request-form/internal/config"
	"service-request-form/internal/logger"
	"service-request-form/internal/socket"
	"service-request-form/internal/submission"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// gin context keys filled by the Inject middlewares
const (
	KeyConfig   = "cnf"
	KeyStore    = "store"
	KeyPipeline = "pipeline"
	KeyHub      = "hub"
)

func InitRoutes(app *gin.Engine) {
	logger.Info("Init request form endpoints...")

	app.GET("/health", health)

	forms := app.Group("/api/forms")
	forms.POST("", createForm)
	forms.GET("/:id", getForm)
	forms.PATCH("/:id", patchHeader)
	forms.DELETE("/:id", deleteForm)

	forms.POST("/:id/servicos", serviceLines.create)
	forms.PATCH("/:id/servicos/:line", serviceLines.update)
	forms.DELETE("/:id/servicos/:line", serviceLines.remove)

	forms.POST("/:id/entregas", deliveryLines.create)
	forms.PATCH("/:id/entregas/:line", deliveryLines.update)
	forms.DELETE("/:id/entregas/:line", deliveryLines.remove)

	forms.POST("/:id/fotos", uploadPhotos)
	forms.DELETE("/:id/fotos/:file", removePhoto)

	forms.POST("/:id/submit", submit)
	forms.GET("/:id/ws", watchStatus)
}

// CORS allows the configured origins, or every origin when none is set.
func CORS(cnf config.Cors) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cnf.AllowOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cnf.AllowOrigins
	}
	return cors.New(cc)
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func storeFrom(c *gin.Context) cache.Store {
	return c.MustGet(KeyStore).(cache.Store)
}

func pipelineFrom(c *gin.Context) *submission.Pipeline {
	return c.MustGet(KeyPipeline).(*submission.Pipeline)
}

func hubFrom(c *gin.Context) *socket.Hub {
	return c.MustGet(KeyHub).(*socket.Hub)
}

func configFrom(c *gin.Context) *config.Conf {
	return c.MustGet(KeyConfig).(*config.Conf)
}
