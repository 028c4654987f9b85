package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kirthidass/Care-Bridge/internal/bootstrap"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/handler"
	"github.com/Kirthidass/Care-Bridge/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	authHandler := handler.NewAuthHandler(
		app.Registry,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	sessionHandler := handler.NewSessionHandler(app.Registry)
	documentHandler := handler.NewDocumentHandler(app.Registry, app.ReportAPI)
	transcriptHandler := handler.NewTranscriptHandler(app.TranscriptRepo)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authRequired, authHandler.Logout)

	sessionGroup := v1.Group("/session")
	sessionGroup.Use(authRequired)
	sessionGroup.GET("", sessionHandler.Get)
	sessionGroup.POST("/role", sessionHandler.SetRole)
	sessionGroup.POST("/enter", sessionHandler.Enter)
	sessionGroup.POST("/select", sessionHandler.Select)
	sessionGroup.POST("/back", sessionHandler.Back)
	sessionGroup.POST("/upload", sessionHandler.Upload)
	sessionGroup.POST("/chat", sessionHandler.Chat)

	documentGroup := v1.Group("/documents")
	documentGroup.Use(authRequired)
	documentGroup.GET("", documentHandler.List)
	documentGroup.DELETE("/:id", documentHandler.Delete)

	knowledgeGroup := v1.Group("/knowledge")
	knowledgeGroup.Use(authRequired)
	knowledgeGroup.POST("/feed", documentHandler.FeedKnowledge)

	v1.GET("/transcripts", authRequired, transcriptHandler.List)

	return router
}
