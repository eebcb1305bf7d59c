package callbacks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/papilonwash/carwash_bot/internal/controller/formatting"
	"github.com/papilonwash/carwash_bot/internal/controller/keyboard"
	"github.com/papilonwash/carwash_bot/internal/service"
	"go.uber.org/zap"
)

const archiveDays = 30

// ShowMyBookings отправляет список предстоящих записей с кнопками отмены
func (h *Handler) ShowMyBookings(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	text, kb := h.buildBookingsScreen(ctx, userID)
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	b.SendMessage(ctx, params)
}

// buildBookingsScreen строит список предстоящих записей
func (h *Handler) buildBookingsScreen(ctx context.Context, userID int64) (string, *models.InlineKeyboardMarkup) {
	reservations, err := h.bookingService.ListMyBookings(ctx, userID, service.DateWindowDays)
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.Error(err))
		return "🚫 Не удалось получить список записей. Попробуйте позже.", nil
	}

	if len(reservations) == 0 {
		return "📋 У вас нет предстоящих записей.", nil
	}

	var sb strings.Builder
	sb.WriteString("📋 Ваши текущие записи:\n\n")

	kb := keyboard.NewBuilder()
	for _, r := range reservations {
		sb.WriteString(formatting.FormatReservation(r))
		sb.WriteString("\n")
		kb.Row(keyboard.Button(
			fmt.Sprintf("❌ Отменить %s %s", formatting.FormatDate(r.Interval.Date), r.Interval.Start),
			RequestCancel+r.ID,
		))
	}

	return sb.String(), kb.Build()
}

// ShowArchive отправляет прошедшие мойки за последний месяц
func (h *Handler) ShowArchive(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	reservations, err := h.bookingService.ListArchive(ctx, userID, archiveDays)
	if err != nil {
		h.logger.Error("Failed to list archive", zap.Error(err))
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "🚫 Не удалось получить архив. Попробуйте позже.",
		})
		return
	}

	if len(reservations) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📜 Архив пуст — за последний месяц моек не было.",
		})
		return
	}

	var sb strings.Builder
	sb.WriteString("📜 Архив моек за последний месяц:\n\n")
	for _, r := range reservations {
		sb.WriteString(formatting.FormatReservation(r))
		sb.WriteString("\n")
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   sb.String(),
	})
}

// handleRefreshBookings перестраивает список записей в том же сообщении
func (h *Handler) handleRefreshBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	answerCallback(ctx, b, callback.ID, "")

	text, kb := h.buildBookingsScreen(ctx, callback.From.ID)
	if err := editMessage(ctx, b, callback, text, kb); err != nil {
		h.logger.Error("Failed to refresh bookings", zap.Error(err))
	}
}

// handleRequestCancel показывает подтверждение отмены брони
func (h *Handler) handleRequestCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	answerCallback(ctx, b, callback.ID, "")

	reservationID := strings.TrimPrefix(callback.Data, RequestCancel)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("❌ Да, отменить", ConfirmCancel+reservationID)).
		Row(keyboard.Button("🔙 Назад", MyBookings)).
		Build()

	if err := editMessage(ctx, b, callback, "Отменить эту запись?", kb); err != nil {
		h.logger.Error("Failed to edit cancel confirmation", zap.Error(err))
	}
}

// handleConfirmCancel отменяет бронь во внешнем сервисе
func (h *Handler) handleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	userID := callback.From.ID
	reservationID := strings.TrimPrefix(callback.Data, ConfirmCancel)

	cancelled, err := h.bookingService.Cancel(ctx, userID, reservationID)
	switch {
	case err == nil:
		answerCallback(ctx, b, callback.ID, "Запись отменена")
		text := fmt.Sprintf("✅ Запись отменена:\n\n%s", formatting.FormatReservation(*cancelled))
		if err := editMessage(ctx, b, callback, text, nil); err != nil {
			h.logger.Error("Failed to edit cancel result", zap.Error(err))
		}

	case errors.Is(err, service.ErrNotFound):
		// Бронь уже исчезла — например, отменена с другого устройства
		answerCallbackAlert(ctx, b, callback.ID, "Запись не найдена. Возможно, она уже отменена.")
		text, kb := h.buildBookingsScreen(ctx, userID)
		if err := editMessage(ctx, b, callback, text, kb); err != nil {
			h.logger.Error("Failed to refresh bookings", zap.Error(err))
		}

	case errors.Is(err, service.ErrCancelFailed):
		answerCallbackAlert(ctx, b, callback.ID, "Не удалось отменить запись. Она остаётся активной, попробуйте позже.")

	default:
		h.logger.Error("Unexpected cancel error", zap.Error(err))
		answerCallbackAlert(ctx, b, callback.ID, "Произошла ошибка. Попробуйте позже.")
	}
}
