package app

import (
	httpH "github.com/yungbote/researchdesk-backend/internal/http/handlers"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Chat        *httpH.ChatHandler
	History     *httpH.HistoryHandler
	Suggestions *httpH.SuggestionsHandler
	Document    *httpH.DocumentHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Chat:        httpH.NewChatHandler(services.Pipeline, services.Sessions, services.Document, log),
		History:     httpH.NewHistoryHandler(services.Sessions, log),
		Suggestions: httpH.NewSuggestionsHandler(services.Sessions, services.Suggestions, log),
		Document:    httpH.NewDocumentHandler(services.Document, log),
	}
}
