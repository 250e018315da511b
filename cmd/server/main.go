package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stitts-dev/matchsim/internal/config"
	"github.com/stitts-dev/matchsim/internal/logging"
	"github.com/stitts-dev/matchsim/internal/repository"
	"github.com/stitts-dev/matchsim/internal/sink"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.WithFields(logrus.Fields{
		"service": "matchsim",
		"port":    cfg.Port,
		"env":     cfg.Env,
	}).Info("starting match simulation service")

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}

	redisClient, err := initRedis(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize redis")
	}
	defer redisClient.Close()

	resultSink := sink.NewPostgresSink(db)
	if err := resultSink.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("failed to migrate result store")
	}

	catalog := repository.NewInMemory(nil, nil)
	repo := repository.NewGuardedRepository(repository.NewCachedRepository(catalog, redisClient, logger), logger)

	handlers := NewHandlers(cfg, db, redisClient, repo, catalog, resultSink, logger)
	router := setupRouter(handlers, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streaming responses outlive the default write timeout
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	logger.Info("server exited")
}

func initDatabase(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	logger.Info("connecting to database...")

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("database connection established")
	return db, nil
}

func initRedis(cfg *config.Config, logger *logrus.Logger) (*redis.Client, error) {
	logger.Info("connecting to redis...")

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("redis connection established")
	return client, nil
}

func setupRouter(h *Handlers, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))
	router.Use(gin.LoggerWithWriter(logger.Writer()))

	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)

	matches := router.Group("/matches")
	{
		matches.POST("/:id/simulate-stream", h.SimulateStream)
		matches.GET("/:id/ws", h.SimulateWebSocket)
		matches.POST("/:id/simulate-instant", h.SimulateInstant)
		matches.GET("/:id/result", h.GetResult)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/matches/simulate", h.AdminSimulateAndDiscard)
		admin.GET("/metrics", h.GetMetrics)
		admin.POST("/teams", h.RegisterTeam)
		admin.POST("/formations", h.RegisterFormation)
	}

	return router
}

// NewGormLogger adapts logrus to gorm.io/gorm/logger.Interface, grounded on
// the teacher's GormLogger in realtime-service/cmd/server/main.go.
func NewGormLogger(logger *logrus.Logger) *GormLogger {
	return &GormLogger{logger: logger}
}

type GormLogger struct {
	logger *logrus.Logger
}

func (l *GormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logger.WithContext(ctx).Infof(msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logger.WithContext(ctx).Warnf(msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logger.WithContext(ctx).Errorf(msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := logrus.Fields{"elapsed": elapsed, "rows": rows, "sql": sql}
	if err != nil {
		l.logger.WithContext(ctx).WithFields(fields).WithError(err).Error("database query failed")
	} else {
		l.logger.WithContext(ctx).WithFields(fields).Debug("database query executed")
	}
}
