package callbacks

import (
	"github.com/papilonwash/carwash_bot/internal/service"
	"go.uber.org/zap"
)

// Handler содержит зависимости всех callback обработчиков
type Handler struct {
	userService    *service.UserService
	bookingService *service.BookingService
	logger         *zap.Logger
}

// NewHandler создаёт обработчик callback запросов
func NewHandler(
	userService *service.UserService,
	bookingService *service.BookingService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:    userService,
		bookingService: bookingService,
		logger:         logger,
	}
}
