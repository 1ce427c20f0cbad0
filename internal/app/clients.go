package app

import (
	"os"
	"strings"

	"github.com/yungbote/researchdesk-backend/internal/clients/groq"
	redisclient "github.com/yungbote/researchdesk-backend/internal/clients/redis"
	"github.com/yungbote/researchdesk-backend/internal/clients/tavily"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

type Clients struct {
	Groq          groq.Client
	Tavily        tavily.Client
	Conversations redisclient.ConversationStore
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	groqClient, err := groq.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	tavilyClient, err := tavily.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	// Redis is optional; the session service falls back to an in-process
	// store when it is not configured.
	var conversations redisclient.ConversationStore
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		conversations, err = redisclient.NewConversationStore(log)
		if err != nil {
			return Clients{}, err
		}
	}

	return Clients{
		Groq:          groqClient,
		Tavily:        tavilyClient,
		Conversations: conversations,
	}, nil
}
