package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/http/middleware"
	"github.com/yungbote/researchdesk-backend/internal/http/response"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
	"github.com/yungbote/researchdesk-backend/internal/services"
)

type SuggestionsHandler struct {
	log         *logger.Logger
	sessions    services.SessionService
	suggestions services.SuggestionsService
}

func NewSuggestionsHandler(
	sessions services.SessionService,
	suggestions services.SuggestionsService,
	baseLog *logger.Logger,
) *SuggestionsHandler {
	return &SuggestionsHandler{
		log:         baseLog.With("handler", "SuggestionsHandler"),
		sessions:    sessions,
		suggestions: suggestions,
	}
}

type suggestionsRequest struct {
	LastQuery  string `json:"last_query"`
	LastAnswer string `json:"last_answer"`
}

// Suggest returns follow-up question candidates for the last turn. Never
// fails the chat flow: any error degrades to an empty list.
func (h *SuggestionsHandler) Suggest(c *gin.Context) {
	var req suggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondOK(c, gin.H{"suggestions": []string{}})
		return
	}

	sid := middleware.SessionID(c)

	var window []research.Turn
	if conv, err := h.sessions.Get(c.Request.Context(), sid); err == nil {
		window = conv.Window(research.PlannerWindow)
	} else {
		h.log.Warn("Suggestions could not load conversation", "session_id", sid.String(), "error", err)
	}

	suggestions := h.suggestions.Suggest(
		strings.TrimSpace(req.LastQuery),
		strings.TrimSpace(req.LastAnswer),
		window,
	)
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
