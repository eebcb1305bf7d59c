package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/papilonwash/carwash_bot/internal/service"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	userID := update.Message.From.ID

	authorized, err := h.userService.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID)
		return
	}

	if authorized {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        "✅ Ты уже авторизован!",
			ReplyMarkup: mainMenu(),
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Привет! Я бот автомойки Папилон. Пожалуйста, авторизируйся, отправив свой контакт.",
		ReplyMarkup: authKeyboard(),
	})
}

// HandleContact обрабатывает отправленный контакт (авторизация)
func (h *Handlers) HandleContact(ctx context.Context, b *bot.Bot, update *models.Update) {
	contact := update.Message.Contact
	userID := update.Message.From.ID

	// Принимаем только собственный контакт пользователя
	if contact.UserID != userID {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "🚫 Ты должен отправить свой контакт!",
		})
		return
	}

	_, err := h.userService.Register(ctx, userID, contact.PhoneNumber)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateRegistration) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:      update.Message.Chat.ID,
				Text:        "🚫 Ты уже зарегистрирован.",
				ReplyMarkup: mainMenu(),
			})
			return
		}
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "✅ Авторизация прошла успешно!",
		ReplyMarkup: mainMenu(),
	})
}

// HandleBook начинает диалог записи на мойку
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if !h.requireAuthorized(ctx, b, update) {
		return
	}

	h.flows.StartBooking(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

// HandleCabinet показывает личный кабинет
func (h *Handlers) HandleCabinet(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	userID := update.Message.From.ID

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID)
		return
	}

	if profile == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        "🚫 Ты не авторизован! Пожалуйста, отправь свой контакт.",
			ReplyMarkup: authKeyboard(),
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: fmt.Sprintf(
			"<b>👤 Личный кабинет</b>\n\n"+
				"<b>🆔 ID:</b> %d\n"+
				"<b>🔑 UserID:</b> %d\n"+
				"<b>📱 Телефон:</b> %s",
			profile.ID, profile.TelegramID, profile.Phone,
		),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: cabinetMenu(),
	})
}

// HandleMyBookings показывает предстоящие записи с кнопками отмены
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if !h.requireAuthorized(ctx, b, update) {
		return
	}

	h.flows.ShowMyBookings(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

// HandleArchive показывает архив моек
func (h *Handlers) HandleArchive(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if !h.requireAuthorized(ctx, b, update) {
		return
	}

	h.flows.ShowArchive(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

// HandleBackToMenu возвращает в главное меню
func (h *Handlers) HandleBackToMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Вы вернулись в главное меню.",
		ReplyMarkup: mainMenu(),
	})
}

// HandleDefault обрабатывает всё остальное: контакты и нераспознанные сообщения
func (h *Handlers) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if update.Message.Contact != nil {
		h.HandleContact(ctx, b, update)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Я не понял ваш запрос. Пожалуйста, используйте доступные команды.",
	})
}

// requireAuthorized проверяет авторизацию, иначе предлагает отправить контакт
func (h *Handlers) requireAuthorized(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	authorized, err := h.userService.IsAuthorized(ctx, update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID)
		return false
	}

	if !authorized {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        "🚫 Ты не авторизован! Пожалуйста, отправь свой контакт.",
			ReplyMarkup: authKeyboard(),
		})
		return false
	}

	return true
}

func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🚫 Произошла ошибка. Попробуйте позже.",
	})
}
