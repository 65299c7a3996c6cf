package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"tweetmint-go/internal/brain"
	"tweetmint-go/internal/config"
	"tweetmint-go/internal/handlers"
	"tweetmint-go/internal/media"
	"tweetmint-go/internal/metrics"
	"tweetmint-go/internal/minter"
	"tweetmint-go/internal/pipeline"
	"tweetmint-go/internal/scheduler"
	"tweetmint-go/internal/server"
	"tweetmint-go/internal/store"
	"tweetmint-go/internal/twitter"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting Tweetmint Service")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	dbConn, err := store.InitDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	st := store.New(dbConn)
	m := metrics.NewMetrics()

	feed, err := twitter.NewClient(&cfg.Twitter)
	if err != nil {
		return fmt.Errorf("failed to create twitter client: %w", err)
	}

	llm, err := brain.NewClient(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}
	logrus.Infof("Using %s as llm provider", cfg.LLM.Provider)

	mint, err := minter.NewMinter(&cfg.Minter)
	if err != nil {
		return fmt.Errorf("failed to create minter: %w", err)
	}

	pipe := pipeline.New(
		feed,
		brain.NewClassifier(llm),
		brain.NewExtractor(llm),
		media.NewResolver(),
		mint,
		st,
		m,
		pipeline.Options{
			BotUserID:        cfg.Twitter.BotUserID,
			DailyReplyMax:    cfg.Scheduler.DailyReplyMax,
			PageSize:         cfg.Scheduler.PageSize,
			FirstRunPageSize: cfg.Scheduler.FirstRunPageSize,
		},
	)

	sched := scheduler.NewScheduler(&cfg.Scheduler, pipe)

	h := handlers.NewHandlers(dbConn, st, sched, cfg.Scheduler.DailyReplyMax)
	router := server.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
