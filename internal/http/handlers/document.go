package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/researchdesk-backend/internal/http/middleware"
	"github.com/yungbote/researchdesk-backend/internal/http/response"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
	"github.com/yungbote/researchdesk-backend/internal/services"
)

type DocumentHandler struct {
	log      *logger.Logger
	document services.DocumentService
}

func NewDocumentHandler(document services.DocumentService, baseLog *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		log:      baseLog.With("handler", "DocumentHandler"),
		document: document,
	}
}

// Download serves the accumulated research document as a markdown file.
func (h *DocumentHandler) Download(c *gin.Context) {
	sid := middleware.SessionID(c)

	doc, err := h.document.Export(c.Request.Context(), sid)
	if err != nil {
		h.log.Error("Document export failed", "session_id", sid.String(), "error", err)
		response.RespondError(c, http.StatusInternalServerError, "export_failed", fmt.Errorf("failed to generate document"))
		return
	}
	if doc == "" {
		response.RespondError(c, http.StatusNotFound, "no_document", fmt.Errorf("no document available, please have a conversation first"))
		return
	}

	filename := fmt.Sprintf("research_report_%s.md", sid.String()[:8])
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc))
}
