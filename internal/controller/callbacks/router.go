package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Callback Data Patterns
// ========================

// Диалог записи на мойку
const (
	DatesPage    = "wash_dates:"  // wash_dates:2 — страница календаря
	PickDate     = "wash_date:"   // wash_date:2026-08-28
	PickTime     = "wash_time:"   // wash_time:615 — минуты с полуночи
	PickDuration = "wash_dur:"    // wash_dur:30
	ConfirmWash  = "wash_confirm" // Подтвердить запись
	AbortWash    = "wash_abort"   // Прервать диалог записи
	BackToTimes  = "wash_times"   // Назад к выбору времени
	ShowDayImage = "wash_image"   // Картинка загруженности дня
)

// Отмена существующих записей
const (
	MyBookings    = "my_bookings"     // Обновить список записей
	RequestCancel = "cancel_res:"     // cancel_res:<id>
	ConfirmCancel = "confirm_cancel:" // confirm_cancel:<id>
)

// HandleCallbackQuery распределяет callback query по обработчикам
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}
	data := callback.Data

	h.logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	// ===== Диалог записи =====
	case strings.HasPrefix(data, DatesPage):
		h.handleDatesPage(ctx, b, callback)
	case strings.HasPrefix(data, PickDate):
		h.handlePickDate(ctx, b, callback)
	case strings.HasPrefix(data, PickTime):
		h.handlePickTime(ctx, b, callback)
	case strings.HasPrefix(data, PickDuration):
		h.handlePickDuration(ctx, b, callback)
	case data == ConfirmWash:
		h.handleConfirm(ctx, b, callback)
	case data == AbortWash:
		h.handleAbort(ctx, b, callback)
	case data == BackToTimes:
		h.handleBackToTimes(ctx, b, callback)
	case data == ShowDayImage:
		h.handleDayImage(ctx, b, callback)

	// ===== Отмена записей =====
	case data == MyBookings:
		h.handleRefreshBookings(ctx, b, callback)
	case strings.HasPrefix(data, RequestCancel):
		h.handleRequestCancel(ctx, b, callback)
	case strings.HasPrefix(data, ConfirmCancel):
		h.handleConfirmCancel(ctx, b, callback)

	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		answerCallback(ctx, b, callback.ID, "")
	}
}
