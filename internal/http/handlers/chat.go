package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/http/middleware"
	"github.com/yungbote/researchdesk-backend/internal/http/response"
	"github.com/yungbote/researchdesk-backend/internal/pkg/errors"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
	"github.com/yungbote/researchdesk-backend/internal/services"
)

const apologyAnswer = "I apologize, but I encountered an error. Please try again."

type ChatHandler struct {
	log      *logger.Logger
	pipeline services.PipelineService
	sessions services.SessionService
	document services.DocumentService
}

func NewChatHandler(
	pipeline services.PipelineService,
	sessions services.SessionService,
	document services.DocumentService,
	baseLog *logger.Logger,
) *ChatHandler {
	return &ChatHandler{
		log:      baseLog.With("handler", "ChatHandler"),
		pipeline: pipeline,
		sessions: sessions,
		document: document,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles one user message. Control messages bypass the pipeline,
// except /dig-deeper which routes into it as a mode selector.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		response.RespondError(c, http.StatusBadRequest, "empty_message", fmt.Errorf("empty message"))
		return
	}

	if strings.HasPrefix(message, "/") && !strings.HasPrefix(strings.ToLower(message), "/dig-deeper") {
		h.handleCommand(c, message)
		return
	}

	sid := middleware.SessionID(c)
	result, err := h.pipeline.Run(c.Request.Context(), sid, message)
	if err != nil {
		if err == errors.ErrInvalidArgument {
			response.RespondError(c, http.StatusBadRequest, "empty_message", fmt.Errorf("empty message"))
			return
		}
		if c.Request.Context().Err() != nil || err == context.Canceled {
			// Client went away; nothing useful to send.
			c.Abort()
			return
		}
		h.log.Error("Pipeline failed", "session_id", sid.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "An error occurred",
			"answer":  apologyAnswer,
			"sources": []any{},
		})
		return
	}

	if result.Sources == nil {
		result.Sources = []research.Source{}
	}
	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}
	response.RespondOK(c, result)
}

func (h *ChatHandler) handleCommand(c *gin.Context, command string) {
	sid := middleware.SessionID(c)

	switch command {
	case "/doc-preview":
		preview, err := h.document.Preview(c.Request.Context(), sid)
		if err != nil {
			h.log.Error("Document preview failed", "session_id", sid.String(), "error", err)
			response.RespondError(c, http.StatusInternalServerError, "preview_failed", fmt.Errorf("failed to generate preview"))
			return
		}
		response.RespondOK(c, gin.H{
			"command": "doc-preview",
			"content": preview,
		})

	case "/doc-download":
		response.RespondOK(c, gin.H{
			"command":      "doc-download",
			"download_url": "/api/download-document",
		})

	case "/new-chat":
		newSID, err := h.sessions.Reset(c.Request.Context(), sid)
		if err != nil {
			h.log.Error("Session reset failed", "session_id", sid.String(), "error", err)
			response.RespondError(c, http.StatusInternalServerError, "reset_failed", fmt.Errorf("failed to start new chat"))
			return
		}
		middleware.SetSessionCookie(c, newSID)
		h.log.Info("New chat session", "old", sid.String(), "new", newSID.String())
		response.RespondOK(c, gin.H{
			"command":    "new-chat",
			"message":    "Started a new chat session!",
			"session_id": newSID.String(),
		})

	default:
		response.RespondError(c, http.StatusBadRequest, "unknown_command", fmt.Errorf("unknown command"))
	}
}
