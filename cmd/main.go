package main

import (
  "fmt"
  "os"
  "time"
  "gorm.io/gorm"
  "github.com/sprachvideo/backend/internal/logger"
  "github.com/sprachvideo/backend/internal/utils"
  "github.com/sprachvideo/backend/internal/db"
  "github.com/sprachvideo/backend/internal/editor"
  "github.com/sprachvideo/backend/internal/repos"
  "github.com/sprachvideo/backend/internal/services"
  "github.com/sprachvideo/backend/internal/handlers"
  "github.com/sprachvideo/backend/internal/middleware"
  "github.com/sprachvideo/backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)

  // Postgres. A failed init is survivable: handlers answer with
  // store-unavailable instead of crashing, so the public healthcheck and
  // redirect behavior keep working.
  var thePG *gorm.DB
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Warn("Postgres init failed, store-backed endpoints degrade", "error", err)
  } else {
    if err := postgresService.AutoMigrateAll(); err != nil {
      log.Warn("Postgres auto migration failed", "error", err)
    }
    thePG = postgresService.DB()
  }

  // Repos
  log.Info("Setting up repos from main...")
  var userRepo repos.UserRepo
  var userTokenRepo repos.UserTokenRepo
  var topicRepo repos.TopicRepo
  if thePG != nil {
    userRepo = repos.NewUserRepo(thePG, log)
    userTokenRepo = repos.NewUserTokenRepo(thePG, log)
    topicRepo = repos.NewTopicRepo(thePG, log)
  }

  // Services
  log.Info("Setting up services from main...")
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Warn("Could not init BucketService, media uploads degrade", "error", err)
  }
  mediaService := services.NewMediaService(log, bucketService)
  topicService := services.NewTopicService(thePG, log, topicRepo)
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  editorManager := editor.NewManager(topicService, mediaService, log)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  topicHandler := handlers.NewTopicHandler(log, topicService)
  editorHandler := handlers.NewEditorHandler(log, editorManager)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AllowedOrigins: allowedOrigins,
    AuthHandler:    authHandler,
    AuthMiddleware: authMiddleware,
    TopicHandler:   topicHandler,
    EditorHandler:  editorHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
