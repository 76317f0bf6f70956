package main

import (
	"log"

	_ "boardflow/docs"
	"boardflow/internal/config"
	"boardflow/internal/logger"
	"boardflow/internal/server"

	"go.uber.org/zap"
)

// @title           Boardflow API
// @version         1.0
// @description     Kanban boards with fractional card ordering and role based access.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	zapLog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	defer zapLog.Sync()

	if cfg.EnvFileErr != nil {
		zapLog.Info("No .env file found, using system environment variables", zap.Error(cfg.EnvFileErr))
	}

	s, err := server.Init(cfg, zapLog)
	if err != nil {
		zapLog.Fatal("Server initialization failed", zap.Error(err))
	}

	s.Run()
}
