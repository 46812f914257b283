package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"socialfeed/internal/config"
	"socialfeed/internal/handlers"
	"socialfeed/internal/logging"
	"socialfeed/internal/repositories"
	"socialfeed/internal/services"
	"socialfeed/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// --- Database ---
	db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.WithError(err).Warn("failed to close database")
		}
	}()
	if err := repositories.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	// --- Activity events (optional) ---
	// Left as a nil interface when disabled so services skip publishing.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, log)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, activity events disabled")
		} else {
			defer mqClient.Close()
			publisher = mqClient
			if err := mqClient.ConsumeEvents(rabbitmq.LogEvent(log)); err != nil {
				log.WithError(err).Warn("failed to start activity event consumer")
			}
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, log)
	feedService := services.NewFeedService(postRepo, cfg.TopPostsLimit)
	svc := handlers.Services{
		Auth:     authService,
		Users:    services.NewUserService(userRepo, postRepo),
		Posts:    services.NewPostService(postRepo, userRepo, feedService, publisher, log),
		Feed:     feedService,
		Comments: services.NewCommentService(commentRepo, postRepo, publisher, log),
	}

	if cfg.Admin.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		admin, err := authService.EnsureAdmin(ctx, services.RegisterInput{
			Username: cfg.Admin.Username,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		cancel()
		if err != nil {
			log.WithError(err).Fatal("failed to bootstrap admin account")
		}
		log.WithField("user_id", admin.ID).Info("admin account ready")
	}

	app := handlers.NewApp(svc, cfg.APIPrefix, log)

	// --- Start HTTP Server ---
	log.WithField("addr", cfg.AppPort).Info("starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	<-quit
	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Warn("error during Fiber shutdown")
	}
	log.Info("server gracefully stopped")
}
