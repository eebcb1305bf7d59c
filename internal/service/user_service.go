package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/papilonwash/carwash_bot/internal/model"
	"github.com/papilonwash/carwash_bot/internal/repository"
	"go.uber.org/zap"
)

// UserStore — локальное хранилище авторизованных пользователей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Register регистрирует пользователя по отправленному контакту.
// Повторная регистрация возвращает ErrDuplicateRegistration.
func (s *UserService) Register(ctx context.Context, telegramID int64, phone string) (*model.User, error) {
	user := &model.User{
		TelegramID: telegramID,
		Phone:      phone,
	}

	err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("user_id", user.ID),
	)

	return user, nil
}

// IsAuthorized проверяет зарегистрирован ли пользователь
func (s *UserService) IsAuthorized(ctx context.Context, telegramID int64) (bool, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("check authorization: %w", err)
	}
	return user != nil, nil
}

// GetProfile получает профиль пользователя, nil если не зарегистрирован
func (s *UserService) GetProfile(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}
