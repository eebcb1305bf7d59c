package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AppointmentCleaner — хранилище, умеющее удалять устаревшие локальные копии записей
type AppointmentCleaner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	appointments  AppointmentCleaner
	retentionDays int
	logger        *zap.Logger
	stopChan      chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(appointments AppointmentCleaner, retentionDays int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		appointments:  appointments,
		retentionDays: retentionDays,
		logger:        logger,
		stopChan:      make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runCleanupTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runCleanupTask периодически чистит устаревшие копии записей
func (s *Scheduler) runCleanupTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.cleanup(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup(ctx)
		case <-s.stopChan:
			s.logger.Info("Cleanup task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Cleanup task cancelled")
			return
		}
	}
}

// cleanup удаляет локальные копии записей старше периода хранения.
// Архив показывается за последние 30 дней, всё старше не нужно.
func (s *Scheduler) cleanup(ctx context.Context) {
	before := time.Now().AddDate(0, 0, -s.retentionDays)

	deleted, err := s.appointments.DeleteOlderThan(ctx, before)
	if err != nil {
		s.logger.Error("Failed to clean up old appointments", zap.Error(err))
		return
	}

	if deleted > 0 {
		s.logger.Info("Old appointments cleaned up", zap.Int64("deleted", deleted))
	}
}
