package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
	"github.com/yungbote/researchdesk-backend/internal/repos"
	"github.com/yungbote/researchdesk-backend/internal/services"
)

type Repos struct {
	Topics repos.TopicRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Topics: repos.NewTopicRepo(db, log),
	}
}

type Services struct {
	Sessions    services.SessionService
	Planner     services.PlannerService
	Hunter      services.HunterService
	Analyst     services.AnalystService
	Writer      services.WriterService
	Document    services.DocumentService
	Suggestions services.SuggestionsService
	Pipeline    services.PipelineService
}

func wireServices(db *gorm.DB, log *logger.Logger, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")

	sessions := services.NewSessionService(clients.Conversations, log)
	planner := services.NewPlannerService(clients.Groq, log)
	hunter := services.NewHunterService(clients.Tavily, log)
	analyst := services.NewAnalystService(clients.Groq, log)
	writer := services.NewWriterService(clients.Groq, log)
	document := services.NewDocumentService(db, reposet.Topics, log)
	suggestions := services.NewSuggestionsService(log)

	pipeline := services.NewPipelineService(sessions, planner, hunter, analyst, writer, document, log)

	return Services{
		Sessions:    sessions,
		Planner:     planner,
		Hunter:      hunter,
		Analyst:     analyst,
		Writer:      writer,
		Document:    document,
		Suggestions: suggestions,
		Pipeline:    pipeline,
	}
}
