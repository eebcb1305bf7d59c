package handlers

import (
	"github.com/papilonwash/carwash_bot/internal/controller/callbacks"
	"github.com/papilonwash/carwash_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд и меню
type Handlers struct {
	userService *service.UserService
	flows       *callbacks.Handler
	logger      *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	flows *callbacks.Handler,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService: userService,
		flows:       flows,
		logger:      logger,
	}
}
