package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/papilonwash/carwash_bot/internal/app"
	"github.com/papilonwash/carwash_bot/internal/config"
	"github.com/papilonwash/carwash_bot/internal/controller"
	"github.com/papilonwash/carwash_bot/internal/repository"
	"github.com/papilonwash/carwash_bot/internal/schedule"
	"github.com/papilonwash/carwash_bot/internal/service"
	"github.com/papilonwash/carwash_bot/internal/session"
	"go.uber.org/zap"
)

const (
	migrationsPath       = "migrations"
	archiveRetentionDays = 60
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории и сервисы
	userRepo := repository.NewUserRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)

	scheduleClient := schedule.NewClient(cfg.ScheduleAPIURL, logger)
	sessions := session.NewManager()

	userService := service.NewUserService(userRepo, logger)
	bookingService := service.NewBookingService(scheduleClient, appointmentRepo, sessions, cfg.BoxID, logger)

	// Контроллер и бот
	botController := controller.NewBotController(userService, bookingService, logger)

	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(botController.DefaultHandler()))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := botController.RegisterHandlers(ctx, b); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновая чистка устаревших локальных копий записей
	scheduler := app.NewScheduler(appointmentRepo, archiveRetentionDays, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Starting carwash bot",
		zap.String("environment", cfg.Environment),
		zap.Int("box_id", cfg.BoxID),
	)

	botController.Start(ctx, b)

	logger.Info("Bot stopped")
}
