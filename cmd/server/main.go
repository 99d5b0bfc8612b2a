package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"aiblecode/internal/api"
	"aiblecode/internal/app/service"
	"aiblecode/internal/app/worker"
	"aiblecode/internal/common/security"
	"aiblecode/internal/domain/repository"
	"aiblecode/internal/judge"
	"aiblecode/internal/platform/config"
	"aiblecode/internal/platform/database"
	"aiblecode/internal/platform/queue"

	"github.com/lmittmann/tint"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
	}))
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	jwt := security.NewJWT(cfg.JWTKey, cfg.JWTExp)

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected", "host", cfg.DBHost, "db", cfg.DBName)

	rdb, err := queue.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()
	logger.Info("redis connected", "addr", cfg.RedisAddr)

	userRepo := repository.NewPgUserRepository(db)
	problemRepo := repository.NewPgProblemRepository(db)
	submissionRepo := repository.NewPgSubmissionRepository(db)
	reviewRepo := repository.NewPgReviewRepository(db)

	engineClient := judge.NewClient(cfg.JudgeAPIURL)
	orchestrator := judge.NewOrchestrator(engineClient, problemRepo, submissionRepo, logger)

	var generator service.ReviewGenerator
	if cfg.ReviewAPIURL != "" {
		generator = service.NewHTTPReviewGenerator(cfg.ReviewAPIURL)
	}

	authService := service.NewAuthService(userRepo, jwt)
	problemService := service.NewProblemService(problemRepo)
	submissionService := service.NewSubmissionService(
		submissionRepo, problemRepo, userRepo, orchestrator, rdb, cfg.JudgeQueueName, logger)
	reviewService := service.NewReviewService(reviewRepo, submissionRepo, problemRepo, generator, logger)

	judgeWorker := worker.NewJudgeWorker(rdb, submissionRepo, orchestrator, cfg.JudgeQueueName, cfg.JudgeWorkerCount, logger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	judgeWorker.Start(workerCtx)

	router := api.NewRouter(jwt, authService, problemService, submissionService, reviewService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-stop

	logger.Info("shutting down")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
		os.Exit(1)
	}

	judgeWorker.Wait()
	logger.Info("server and workers stopped")
}
