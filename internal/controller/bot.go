package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/papilonwash/carwash_bot/internal/controller/callbacks"
	"github.com/papilonwash/carwash_bot/internal/controller/handlers"
	"github.com/papilonwash/carwash_bot/internal/service"
	"go.uber.org/zap"
)

// BotController собирает обработчики и навешивает их на бота.
// Сам экземпляр бота создаётся в main: default handler контроллера
// нужен уже на этапе bot.New.
type BotController struct {
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	userService *service.UserService,
	bookingService *service.BookingService,
	logger *zap.Logger,
) *BotController {
	// Callback handler ведёт inline-диалоги (запись, отмена)
	callbackHandler := callbacks.NewHandler(userService, bookingService, logger)

	// Обработчики команд и reply-меню
	cmdHandlers := handlers.NewHandlers(userService, callbackHandler, logger)

	return &BotController{
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// DefaultHandler обрабатывает сообщения вне команд и меню
// (контакты для авторизации и нераспознанный текст)
func (c *BotController) DefaultHandler() bot.HandlerFunc {
	return c.handlers.HandleDefault
}

// RegisterHandlers регистрирует все обработчики команд и меню
func (c *BotController) RegisterHandlers(ctx context.Context, b *bot.Bot) error {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)

	// Кнопки reply-меню
	b.RegisterHandler(bot.HandlerTypeMessageText, handlers.BtnBook, bot.MatchTypeExact, c.handlers.HandleBook)
	b.RegisterHandler(bot.HandlerTypeMessageText, handlers.BtnCabinet, bot.MatchTypeExact, c.handlers.HandleCabinet)
	b.RegisterHandler(bot.HandlerTypeMessageText, handlers.BtnMyBookings, bot.MatchTypeExact, c.handlers.HandleMyBookings)
	b.RegisterHandler(bot.HandlerTypeMessageText, handlers.BtnArchive, bot.MatchTypeExact, c.handlers.HandleArchive)
	b.RegisterHandler(bot.HandlerTypeMessageText, handlers.BtnBackToMenu, bot.MatchTypeExact, c.handlers.HandleBackToMenu)

	// Обработчик нажатий на inline кнопки
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx, b)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context, b *bot.Bot) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
	}

	_, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает получение обновлений
func (c *BotController) Start(ctx context.Context, b *bot.Bot) {
	c.logger.Info("Starting bot...")
	b.Start(ctx)
}
