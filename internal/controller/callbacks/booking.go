package callbacks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/papilonwash/carwash_bot/internal/controller/formatting"
	"github.com/papilonwash/carwash_bot/internal/controller/keyboard"
	"github.com/papilonwash/carwash_bot/internal/controller/render"
	"github.com/papilonwash/carwash_bot/internal/service"
	"github.com/papilonwash/carwash_bot/internal/session"
	"github.com/papilonwash/carwash_bot/internal/timeslot"
	"go.uber.org/zap"
)

const (
	dateLayout   = "2006-01-02"
	datesPerPage = 8
)

// StartBooking начинает диалог записи: отправляет календарь выбора даты
func (h *Handler) StartBooking(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	h.bookingService.AbortSelection(userID)

	text, kb := h.buildDateScreen(0)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
}

// buildDateScreen строит страницу календаря
func (h *Handler) buildDateScreen(page int) (string, *models.InlineKeyboardMarkup) {
	dates := h.bookingService.ListDateOptions()
	today := dates[0]

	totalPages := (len(dates) + datesPerPage - 1) / datesPerPage
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * datesPerPage
	end := start + datesPerPage
	if end > len(dates) {
		end = len(dates)
	}

	kb := keyboard.NewBuilder()
	var row []models.InlineKeyboardButton
	for _, date := range dates[start:end] {
		row = append(row, keyboard.Button(
			formatting.DateButtonLabel(date, today),
			PickDate+date.Format(dateLayout),
		))
		if len(row) == 2 {
			kb.AddRow(row)
			row = nil
		}
	}
	kb.AddRow(row)

	var nav []models.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, keyboard.Button("⬅️", DatesPage+strconv.Itoa(page-1)))
	}
	if page < totalPages-1 {
		nav = append(nav, keyboard.Button("➡️", DatesPage+strconv.Itoa(page+1)))
	}
	kb.AddRow(nav)
	kb.Row(keyboard.Button("❌ Отмена", AbortWash))

	return "📅 Выберите дату мойки:", kb.Build()
}

// handleDatesPage листает календарь
func (h *Handler) handleDatesPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	answerCallback(ctx, b, callback.ID, "")

	page, err := strconv.Atoi(strings.TrimPrefix(callback.Data, DatesPage))
	if err != nil {
		return
	}

	text, kb := h.buildDateScreen(page)
	if err := editMessage(ctx, b, callback, text, kb); err != nil {
		h.logger.Error("Failed to edit date screen", zap.Error(err))
	}
}

// handlePickDate сохраняет дату и показывает свободное время
func (h *Handler) handlePickDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	userID := callback.From.ID

	date, err := time.Parse(dateLayout, strings.TrimPrefix(callback.Data, PickDate))
	if err != nil {
		answerCallbackAlert(ctx, b, callback.ID, "Некорректная дата")
		return
	}

	answerCallback(ctx, b, callback.ID, "")
	h.bookingService.ChooseDate(userID, date)

	text, kb := h.buildTimeScreen(ctx, date)
	if err := editMessage(ctx, b, callback, text, kb); err != nil {
		h.logger.Error("Failed to edit time screen", zap.Error(err))
	}
}

// buildTimeScreen строит экран выбора времени: кнопки только для свободных
// слотов, занятость целиком видна на картинке дня
func (h *Handler) buildTimeScreen(ctx context.Context, date time.Time) (string, *models.InlineKeyboardMarkup) {
	slots := h.bookingService.ListTimeOptions(ctx, date)

	kb := keyboard.NewBuilder()
	var row []models.InlineKeyboardButton
	free := 0
	for _, slot := range slots {
		if !slot.Selectable() {
			continue
		}
		free++
		row = append(row, keyboard.Button(
			slot.Start.String(),
			PickTime+strconv.Itoa(int(slot.Start)),
		))
		if len(row) == 4 {
			kb.AddRow(row)
			row = nil
		}
	}
	kb.AddRow(row)

	kb.Row(keyboard.Button("🖼 Загруженность дня", ShowDayImage))
	kb.Row(
		keyboard.Button("🔙 К датам", DatesPage+"0"),
		keyboard.Button("❌ Отмена", AbortWash),
	)

	if free == 0 {
		return fmt.Sprintf("😔 На %s свободного времени нет.\n\nПопробуйте другую дату:", formatting.FormatDate(date)), kb.Build()
	}

	return fmt.Sprintf("🕐 Дата: %s\n\nВыберите время начала мойки:", formatting.FormatDate(date)), kb.Build()
}

// handlePickTime сохраняет время и показывает доступные длительности
func (h *Handler) handlePickTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	userID := callback.From.ID

	minutes, err := strconv.Atoi(strings.TrimPrefix(callback.Data, PickTime))
	if err != nil || !timeslot.TimeOfDay(minutes).Valid() {
		answerCallbackAlert(ctx, b, callback.ID, "Некорректное время")
		return
	}
	start := timeslot.TimeOfDay(minutes)

	if err := h.bookingService.ChooseTime(userID, start); err != nil {
		h.handleSelectionError(ctx, b, callback, err)
		return
	}

	answerCallback(ctx, b, callback.ID, "")

	selection := h.bookingService.Selection(userID)
	text, kb := h.buildDurationScreen(ctx, selection)
	if err := editMessage(ctx, b, callback, text, kb); err != nil {
		h.logger.Error("Failed to edit duration screen", zap.Error(err))
	}
}

// buildDurationScreen строит экран выбора длительности
func (h *Handler) buildDurationScreen(ctx context.Context, selection session.Session) (string, *models.InlineKeyboardMarkup) {
	durations := h.bookingService.ListDurationOptions(ctx, selection.Date, selection.Start)

	kb := keyboard.NewBuilder()
	var row []models.InlineKeyboardButton
	for _, d := range durations {
		row = append(row, keyboard.Button(
			formatting.FormatDuration(d),
			PickDuration+strconv.Itoa(d),
		))
	}
	kb.AddRow(row)
	kb.Row(
		keyboard.Button("🔙 К времени", BackToTimes),
		keyboard.Button("❌ Отмена", AbortWash),
	)

	header := fmt.Sprintf("🕐 Дата: %s\n⏰ Время: %s\n\n",
		formatting.FormatDate(selection.Date), selection.Start)

	if len(durations) == 0 {
		// Нет вариантов — корректный ответ, не ошибка: следующая бронь
		// начинается слишком близко к выбранному времени
		return header + "😔 От этого времени не помещается ни одна длительность.\n\nВыберите другое время:", kb.Build()
	}

	return header + "⏳ Выберите длительность мойки:", kb.Build()
}

// handlePickDuration сохраняет длительность и показывает сводку для подтверждения
func (h *Handler) handlePickDuration(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	userID := callback.From.ID

	minutes, err := strconv.Atoi(strings.TrimPrefix(callback.Data, PickDuration))
	if err != nil || minutes <= 0 {
		answerCallbackAlert(ctx, b, callback.ID, "Некорректная длительность")
		return
	}

	if err := h.bookingService.ChooseDuration(userID, minutes); err != nil {
		h.handleSelectionError(ctx, b, callback, err)
		return
	}

	answerCallback(ctx, b, callback.ID, "")

	selection := h.bookingService.Selection(userID)
	text := fmt.Sprintf(
		"📋 Проверьте запись:\n\n"+
			"🕐 Дата: %s\n"+
			"⏰ Время: %s\n"+
			"⏳ Длительность: %s",
		formatting.FormatDate(selection.Date),
		formatting.FormatTimeRange(selection.Start, selection.Duration),
		formatting.FormatDuration(selection.Duration),
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("✅ Подтвердить", ConfirmWash)).
		Row(
			keyboard.Button("🔙 К времени", BackToTimes),
			keyboard.Button("❌ Отмена", AbortWash),
		).
		Build()

	if err := editMessage(ctx, b, callback, text, kb); err != nil {
		h.logger.Error("Failed to edit confirmation screen", zap.Error(err))
	}
}

// handleConfirm подтверждает запись во внешнем сервисе
func (h *Handler) handleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	userID := callback.From.ID

	booking, err := h.bookingService.Confirm(ctx, userID)
	switch {
	case err == nil:
		answerCallback(ctx, b, callback.ID, "Запись создана")
		text := fmt.Sprintf(
			"✅ Вы записаны на мойку!\n\n"+
				"🕐 Дата: %s\n"+
				"⏰ Время: %s\n"+
				"⏳ Длительность: %s\n\n"+
				"Ждём вас! 🚗",
			formatting.FormatDate(booking.Date),
			formatting.FormatTimeRange(booking.Start, booking.Duration),
			formatting.FormatDuration(booking.Duration),
		)
		if err := editMessage(ctx, b, callback, text, nil); err != nil {
			h.logger.Error("Failed to edit success message", zap.Error(err))
		}

	case errors.Is(err, service.ErrSlotUnavailable):
		// Окно заняли между выбором и подтверждением — возвращаем к выбору времени
		answerCallbackAlert(ctx, b, callback.ID, "Это время уже заняли. Выберите другое.")
		selection := h.bookingService.Selection(userID)
		text, kb := h.buildTimeScreen(ctx, selection.Date)
		if err := editMessage(ctx, b, callback, text, kb); err != nil {
			h.logger.Error("Failed to edit time screen", zap.Error(err))
		}

	case errors.Is(err, service.ErrBookingFailed):
		// Сессия сохранена — пользователь может повторить подтверждение
		answerCallbackAlert(ctx, b, callback.ID, "Не удалось создать запись. Попробуйте ещё раз.")

	case errors.Is(err, session.ErrIncompleteSelection):
		h.handleSelectionError(ctx, b, callback, err)

	default:
		h.logger.Error("Unexpected confirm error", zap.Error(err))
		answerCallbackAlert(ctx, b, callback.ID, "Произошла ошибка. Попробуйте позже.")
	}
}

// handleAbort прерывает диалог записи
func (h *Handler) handleAbort(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	answerCallback(ctx, b, callback.ID, "")
	h.bookingService.AbortSelection(callback.From.ID)

	if err := editMessage(ctx, b, callback, "❌ Запись отменена.\n\nВыберите действие в меню.", nil); err != nil {
		h.logger.Error("Failed to edit abort message", zap.Error(err))
	}
}

// handleBackToTimes возвращает к выбору времени для уже выбранной даты
func (h *Handler) handleBackToTimes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	userID := callback.From.ID

	selection := h.bookingService.Selection(userID)
	if !selection.HasDate() {
		h.handleSelectionError(ctx, b, callback, session.ErrIncompleteSelection)
		return
	}

	answerCallback(ctx, b, callback.ID, "")

	// Заново выбираем дату: время и длительность сбрасываются
	h.bookingService.ChooseDate(userID, selection.Date)

	text, kb := h.buildTimeScreen(ctx, selection.Date)
	if err := editMessage(ctx, b, callback, text, kb); err != nil {
		h.logger.Error("Failed to edit time screen", zap.Error(err))
	}
}

// handleDayImage отправляет картинку загруженности выбранного дня
func (h *Handler) handleDayImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	userID := callback.From.ID

	selection := h.bookingService.Selection(userID)
	if !selection.HasDate() {
		h.handleSelectionError(ctx, b, callback, session.ErrIncompleteSelection)
		return
	}

	answerCallback(ctx, b, callback.ID, "")

	slots := h.bookingService.ListTimeOptions(ctx, selection.Date)
	img, err := render.DayGrid(selection.Date, slots)
	if err != nil {
		h.logger.Error("Failed to render day grid", zap.Error(err))
		return
	}

	msg := messageFromCallback(callback)
	if msg == nil {
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: msg.Chat.ID,
		Photo: &models.InputFileUpload{
			Filename: "day.png",
			Data:     bytes.NewReader(img),
		},
		Caption: fmt.Sprintf("Загруженность на %s\n🟩 свободно · 🟥 занято · ⬜ прошло",
			formatting.FormatDate(selection.Date)),
	})
	if err != nil {
		h.logger.Error("Failed to send day grid photo", zap.Error(err))
	}
}

// handleSelectionError обрабатывает нарушение порядка шагов диалога:
// состояние потеряно (например, после рестарта) — начинаем заново
func (h *Handler) handleSelectionError(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, err error) {
	if !errors.Is(err, session.ErrIncompleteSelection) {
		h.logger.Error("Unexpected selection error", zap.Error(err))
	}

	answerCallbackAlert(ctx, b, callback.ID, "Диалог записи устарел. Начните заново.")
	h.bookingService.AbortSelection(callback.From.ID)

	text, kb := h.buildDateScreen(0)
	if err := editMessage(ctx, b, callback, text, kb); err != nil {
		h.logger.Error("Failed to edit date screen", zap.Error(err))
	}
}
