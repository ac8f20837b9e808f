package server

import (
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/sprachvideo/backend/internal/handlers"
  "github.com/sprachvideo/backend/internal/middleware"
)

type RouterConfig struct {
  AllowedOrigins string
  AuthHandler    *handlers.AuthHandler
  AuthMiddleware *middleware.AuthMiddleware
  TopicHandler   *handlers.TopicHandler
  EditorHandler  *handlers.EditorHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  origins := []string{"http://localhost:3000", "http://localhost:5173"}
  if cfg.AllowedOrigins != "" {
    origins = strings.Split(cfg.AllowedOrigins, ",")
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
    // Catalog and viewer
    api.GET("/topics", cfg.TopicHandler.ListTopics)
    api.GET("/topics/:id", cfg.TopicHandler.GetTopic)
  }

// ===============
// || Protected ||
// ===============
  admin := router.Group("/api/admin")
  admin.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  admin.POST("/refresh", cfg.AuthHandler.Refresh)
  admin.POST("/logout", cfg.AuthHandler.Logout)
  // List view
  admin.GET("/topics", cfg.TopicHandler.ListTopics)
  admin.DELETE("/topics/:id", cfg.TopicHandler.DeleteTopic)
  // Editor sessions
  admin.POST("/editor/sessions", cfg.EditorHandler.OpenSession)
  admin.GET("/editor/sessions/:sid", cfg.EditorHandler.GetSession)
  admin.DELETE("/editor/sessions/:sid", cfg.EditorHandler.CloseSession)
  admin.PATCH("/editor/sessions/:sid/fields", cfg.EditorHandler.UpdateField)
  admin.POST("/editor/sessions/:sid/phrases", cfg.EditorHandler.AppendPhrase)
  admin.PATCH("/editor/sessions/:sid/phrases/:index", cfg.EditorHandler.UpdatePhraseField)
  admin.DELETE("/editor/sessions/:sid/phrases/:index", cfg.EditorHandler.RemovePhrase)
  admin.POST("/editor/sessions/:sid/vocabulary", cfg.EditorHandler.AppendVocabulary)
  admin.PATCH("/editor/sessions/:sid/vocabulary/:index", cfg.EditorHandler.UpdateVocabularyField)
  admin.DELETE("/editor/sessions/:sid/vocabulary/:index", cfg.EditorHandler.RemoveVocabulary)
  admin.POST("/editor/sessions/:sid/media", cfg.EditorHandler.AttachMedia)
  admin.POST("/editor/sessions/:sid/save", cfg.EditorHandler.Save)

  return router
}
