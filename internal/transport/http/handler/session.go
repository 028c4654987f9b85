package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kirthidass/Care-Bridge/internal/app"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/middleware"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/response"
)

type SessionHandler struct {
	registry *app.Registry
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type SelectDocumentRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
}

type ChatRequest struct {
	Question string `json:"question" binding:"required"`
}

func NewSessionHandler(registry *app.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

func (h *SessionHandler) controller(c *gin.Context) (*app.SessionController, bool) {
	sessionID := c.GetString(middleware.ContextSessionIDKey)
	controller, ok := h.registry.Resume(c.Request.Context(), sessionID)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeSessionExpired, "session no longer exists, log in again")
		return nil, false
	}
	return controller, true
}

func (h *SessionHandler) Get(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}
	response.OK(c, controller.Snapshot())
}

func (h *SessionHandler) SetRole(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := controller.SetRole(c.Request.Context(), req.Role); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "set role failed")
		}
		return
	}

	response.OK(c, controller.Snapshot())
}

// Enter marks re-entry into the session view, e.g. navigating back from the
// management surface, and triggers reconciliation against a fresh list.
func (h *SessionHandler) Enter(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}

	controller.Watcher().ViewEntered(c.Request.Context())
	response.OK(c, gin.H{
		"session":   controller.Snapshot(),
		"documents": controller.Documents(),
	})
}

func (h *SessionHandler) Select(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}

	var req SelectDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := controller.SelectDocument(req.DocumentID); err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentMissing, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "select document failed")
		}
		return
	}

	response.OK(c, controller.Snapshot())
}

func (h *SessionHandler) Back(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}

	controller.ClearSelection()
	response.OK(c, controller.Snapshot())
}

func (h *SessionHandler) Upload(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "unreadable upload")
		return
	}
	defer file.Close()

	provisional, err := controller.StartUpload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "upload failed")
		return
	}

	response.OK(c, gin.H{
		"document": provisional,
		"session":  controller.Snapshot(),
	})
}

// Chat appends the user message and schedules the answer; the assistant turn
// shows up in later session snapshots once it resolves.
func (h *SessionHandler) Chat(c *gin.Context) {
	controller, ok := h.controller(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := controller.SubmitChat(req.Question); err != nil {
		switch {
		case errors.Is(err, app.ErrNoActiveDocument), errors.Is(err, app.ErrQuestionEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrChatBusy):
			response.Error(c, http.StatusConflict, response.CodeChatBusy, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "chat failed")
		}
		return
	}

	response.OK(c, controller.Snapshot())
}
