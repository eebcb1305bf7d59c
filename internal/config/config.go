package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	DBDSN          string
	ScheduleAPIURL string
	BoxID          int
	Environment    string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		ScheduleAPIURL: os.Getenv("SCHEDULE_API_URL"),
		Environment:    os.Getenv("ENV"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.BoxID = 1
	if boxStr := os.Getenv("SCHEDULE_BOX_ID"); boxStr != "" {
		box, err := strconv.Atoi(boxStr)
		if err != nil {
			return nil, fmt.Errorf("SCHEDULE_BOX_ID must be an integer: %w", err)
		}
		cfg.BoxID = box
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.ScheduleAPIURL == "" {
		return nil, fmt.Errorf("SCHEDULE_API_URL is required but not set")
	}

	return cfg, nil
}
