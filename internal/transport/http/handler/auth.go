package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kirthidass/Care-Bridge/internal/app"
	"github.com/Kirthidass/Care-Bridge/internal/pkg/jwtutil"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/middleware"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/response"
)

type AuthHandler struct {
	registry      *app.Registry
	jwtSecret     string
	jwtExpiration time.Duration
}

// Credentials are accepted as-is: the login flow only establishes a gateway
// session and records the logged-in flags.
type LoginRequest struct {
	Email    string `json:"email" binding:"omitempty,email,max=128"`
	Password string `json:"password" binding:"max=128"`
}

func NewAuthHandler(registry *app.Registry, jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		registry:      registry,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	sessionID := uuid.NewString()
	controller := h.registry.Create(sessionID)

	email, err := controller.Login(c.Request.Context(), req.Email)
	if err != nil {
		h.registry.Remove(sessionID)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "login failed")
		return
	}

	token, err := jwtutil.GenerateToken(h.jwtSecret, h.jwtExpiration, sessionID, email)
	if err != nil {
		h.registry.Remove(sessionID)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "login failed")
		return
	}

	response.OK(c, gin.H{
		"token": token,
		"email": email,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionIDKey)
	if controller, ok := h.registry.Get(sessionID); ok {
		if err := controller.Logout(c.Request.Context()); err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "logout failed")
			return
		}
		h.registry.Remove(sessionID)
	}
	response.OK(c, gin.H{"logged_out": true})
}
