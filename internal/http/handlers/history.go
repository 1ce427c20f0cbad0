package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/http/middleware"
	"github.com/yungbote/researchdesk-backend/internal/http/response"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
	"github.com/yungbote/researchdesk-backend/internal/services"
)

type HistoryHandler struct {
	log      *logger.Logger
	sessions services.SessionService
}

func NewHistoryHandler(sessions services.SessionService, baseLog *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		log:      baseLog.With("handler", "HistoryHandler"),
		sessions: sessions,
	}
}

// History returns the session's turns for client-side replay on reload.
func (h *HistoryHandler) History(c *gin.Context) {
	sid := middleware.SessionID(c)
	conv, err := h.sessions.Get(c.Request.Context(), sid)
	if err != nil {
		h.log.Error("Failed to load conversation", "session_id", sid.String(), "error", err)
		response.RespondError(c, http.StatusInternalServerError, "history_failed", fmt.Errorf("failed to load history"))
		return
	}

	turns := conv.Turns
	if turns == nil {
		turns = []research.Turn{}
	}
	response.RespondOK(c, gin.H{"turns": turns})
}
