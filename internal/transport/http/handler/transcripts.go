package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kirthidass/Care-Bridge/internal/repository"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/middleware"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/response"
)

// TranscriptHandler reads back the persisted chat audit trail for the calling
// session. The live thread stays in the coordinator; this surface only sees
// what the persistence worker already wrote.
type TranscriptHandler struct {
	repo *repository.TranscriptRepository
}

func NewTranscriptHandler(repo *repository.TranscriptRepository) *TranscriptHandler {
	return &TranscriptHandler{repo: repo}
}

func (h *TranscriptHandler) List(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionIDKey)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.repo.ListBySessionID(sessionID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "transcript lookup failed")
		return
	}
	response.OK(c, entries)
}
