package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskboard/config"
	"taskboard/internal/api"
	"taskboard/internal/db"
	"taskboard/internal/mq"
	boardredis "taskboard/internal/redis"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/pkg/logger"
)

func main() {
	logger.Log = logger.NewLogger()
	defer logger.Log.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewConnection(cfg.DB, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Init(ctx, pool); err != nil {
		logger.Log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	rdb := boardredis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		logger.Log.Warn("Message queue unavailable, events disabled", zap.Error(err))
		producer = nil
	} else {
		defer producer.Close()
	}

	userRepo := repository.NewUserRepository(pool)
	projectRepo := repository.NewProjectRepository(pool, logger.Log)
	taskRepo := repository.NewTaskRepository(pool, logger.Log)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	statsService := service.NewStatsService(userRepo, projectRepo, taskRepo, rdb, logger.Log)
	seedService := service.NewSeedService(userRepo, projectRepo, taskRepo, logger.Log)

	if seeded, err := seedService.SeedIfEmpty(ctx); err != nil {
		logger.Log.Warn("Failed to seed sample data", zap.Error(err))
	} else if seeded {
		logger.Log.Info("Seeded sample data into empty database")
	}

	handlers := api.Handlers{
		Auth:     api.NewAuthHandler(authService, logger.Log),
		Users:    api.NewUserHandler(userRepo, logger.Log),
		Projects: api.NewProjectHandler(projectRepo, taskRepo, statsService, producer, logger.Log),
		Tasks:    api.NewTaskHandler(taskRepo, statsService, producer, logger.Log),
		Stats:    api.NewStatsHandler(statsService, seedService, logger.Log),
	}

	router := api.NewRouter(handlers, userRepo, cfg.JWT.Secret, logger.Log)

	logger.Log.Info("Board API listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Log.Fatal("Server stopped", zap.Error(err))
	}
}
