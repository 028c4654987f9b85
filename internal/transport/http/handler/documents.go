package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kirthidass/Care-Bridge/internal/app"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/middleware"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/response"
)

// KnowledgeFeeder is the reserved rag ingestion capability; only the
// management API reaches it.
type KnowledgeFeeder interface {
	FeedKnowledge(ctx context.Context, text, source string) error
}

// DocumentHandler is the management surface: listing and deleting documents
// outside the session view.
type DocumentHandler struct {
	registry *app.Registry
	feeder   KnowledgeFeeder
}

type FeedKnowledgeRequest struct {
	Text   string `json:"text" binding:"required"`
	Source string `json:"source" binding:"required"`
}

func NewDocumentHandler(registry *app.Registry, feeder KnowledgeFeeder) *DocumentHandler {
	return &DocumentHandler{registry: registry, feeder: feeder}
}

func (h *DocumentHandler) controller(c *gin.Context) (*app.SessionController, bool) {
	sessionID := c.GetString(middleware.ContextSessionIDKey)
	controller, ok := h.registry.Resume(c.Request.Context(), sessionID)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeSessionExpired, "session no longer exists, log in again")
		return nil, false
	}
	return controller, true
}

func (h *DocumentHandler) List(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}

	docs, err := controller.RefreshDocuments(c.Request.Context())
	if err != nil {
		// Stale cache retained; the management view needs the fresh truth.
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "document list unavailable")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}

	documentID := c.Param("id")
	if documentID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing document id")
		return
	}

	if err := controller.RemoveDocument(c.Request.Context(), documentID); err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "failed to delete document, please try again")
		return
	}

	response.OK(c, gin.H{"deleted_document_id": documentID})
}

func (h *DocumentHandler) FeedKnowledge(c *gin.Context) {
	if _, ok := h.controller(c); !ok {
		return
	}

	var req FeedKnowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.feeder.FeedKnowledge(c.Request.Context(), req.Text, req.Source); err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "knowledge feed failed")
		return
	}
	response.OK(c, gin.H{"fed": true})
}
