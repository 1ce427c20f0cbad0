package app

import (
	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/researchdesk-backend/internal/http/middleware"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, services Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS())

	r.GET("/healthcheck", handlers.Health.HealthCheck)

	api := r.Group("/api")
	api.Use(httpMW.Session(services.Sessions, log))
	{
		api.POST("/chat", handlers.Chat.Chat)
		api.GET("/history", handlers.History.History)
		api.POST("/suggestions", handlers.Suggestions.Suggest)
		api.GET("/download-document", handlers.Document.Download)
	}

	return r
}
