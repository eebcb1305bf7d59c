package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// answerCallback отвечает на callback query (без alert)
func answerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// answerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func answerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// messageFromCallback извлекает сообщение из callback query
func messageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// editMessage редактирует сообщение callback, игнорируя
// "message is not modified" - это не настоящая ошибка
func editMessage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, text string, kb *models.InlineKeyboardMarkup) error {
	msg := messageFromCallback(callback)
	if msg == nil {
		return nil
	}

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	_, err := b.EditMessageText(ctx, params)

	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}
