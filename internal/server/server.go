package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boardflow/internal/auth"
	"boardflow/internal/config"
	"boardflow/internal/handler"
	"boardflow/internal/middleware"
	"boardflow/internal/migration"
	"boardflow/internal/repository"
	"boardflow/internal/service"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
}

// Init connects to the database, brings the schema up to date and builds
// the server.
func Init(cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	log.Info("Connected to database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	if cfg.RunMigrations {
		if err := migration.Up(cfg.MigrationURL(), log); err != nil {
			return nil, err
		}
	}

	if len(cfg.AdminEmails) > 0 {
		promoted, err := repository.NewUserRepository(db).PromoteAdmins(context.Background(), cfg.AdminEmails)
		if err != nil {
			return nil, fmt.Errorf("failed to promote admins: %w", err)
		}
		log.Info("Global admins configured", zap.Strings("emails", cfg.AdminEmails), zap.Int64("promoted", promoted))
	}

	return New(cfg, db, log), nil
}

// New wires repositories, the service and handlers onto a gin engine.
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) *Server {
	store := repository.NewStore(db)
	svc := service.New(store, service.Options{
		Epsilon:          cfg.RebalanceEpsilon,
		MaxBoardsPerUser: cfg.MaxBoardsPerUser,
		Logger:           log,
	})
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	r := gin.New()
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))
	r.Use(middleware.Metrics())

	userHandler := handler.NewUserHandler(store.Users, tokens)
	boardHandler := handler.NewBoardHandler(svc)
	memberHandler := handler.NewMemberHandler(svc)
	columnHandler := handler.NewColumnHandler(svc)
	cardHandler := handler.NewCardHandler(svc)
	labelHandler := handler.NewLabelHandler(svc)
	commentHandler := handler.NewCommentHandler(svc)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/health", health(store.DB()))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Boards
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// Members
		authorized.GET("/boards/:id/members", memberHandler.List)
		authorized.POST("/boards/:id/members", memberHandler.Add)
		authorized.DELETE("/boards/:id/members/:user_id", memberHandler.Remove)

		// Columns
		authorized.POST("/boards/:id/columns", columnHandler.Create)
		authorized.GET("/boards/:id/columns", columnHandler.GetAll)
		authorized.GET("/columns/:id", columnHandler.GetByID)
		authorized.PUT("/columns/:id", columnHandler.Update)
		authorized.DELETE("/columns/:id", columnHandler.Delete)
		authorized.POST("/columns/:id/move", columnHandler.Move)

		// Cards
		authorized.POST("/columns/:id/cards", cardHandler.Create)
		authorized.GET("/columns/:id/cards", cardHandler.GetByColumnID)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.PATCH("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/archive", cardHandler.Archive)
		authorized.DELETE("/cards/:id/archive", cardHandler.Unarchive)
		authorized.POST("/cards/:id/labels/:label_id", cardHandler.AddLabel)
		authorized.DELETE("/cards/:id/labels/:label_id", cardHandler.RemoveLabel)

		// Comments
		authorized.GET("/cards/:id/comments", commentHandler.List)
		authorized.POST("/cards/:id/comments", commentHandler.Create)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		// Labels
		authorized.POST("/boards/:id/labels", labelHandler.Create)
		authorized.GET("/boards/:id/labels", labelHandler.GetByBoardID)
		authorized.GET("/labels/:id", labelHandler.GetByID)
		authorized.PUT("/labels/:id", labelHandler.Update)
		authorized.DELETE("/labels/:id", labelHandler.Delete)
		authorized.GET("/labels/:id/cards", labelHandler.GetCardsWithLabel)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Log:    log,
	}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Log.Info("Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Fatal("Failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	s.Log.Info("Server exited properly")
}
