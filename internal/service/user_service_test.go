package service

import (
	"context"
	"errors"
	"testing"

	"github.com/papilonwash/carwash_bot/internal/model"
	"github.com/papilonwash/carwash_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userStoreMock struct {
	mock.Mock
}

func (m *userStoreMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userStoreMock) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRegister(t *testing.T) {
	store := &userStoreMock{}
	store.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.TelegramID == 42 && u.Phone == "+79990001122"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 7
	}).Return(nil)

	svc := NewUserService(store, zap.NewNop())

	user, err := svc.Register(context.Background(), 42, "+79990001122")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
}

func TestRegisterDuplicate(t *testing.T) {
	store := &userStoreMock{}
	store.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	svc := NewUserService(store, zap.NewNop())

	_, err := svc.Register(context.Background(), 42, "+79990001122")
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestIsAuthorized(t *testing.T) {
	store := &userStoreMock{}
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(&model.User{TelegramID: 42}, nil)
	store.On("GetByTelegramID", mock.Anything, int64(99)).Return(nil, nil)

	svc := NewUserService(store, zap.NewNop())

	ok, err := svc.IsAuthorized(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAuthorized(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAuthorizedStoreError(t *testing.T) {
	store := &userStoreMock{}
	store.On("GetByTelegramID", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewUserService(store, zap.NewNop())

	_, err := svc.IsAuthorized(context.Background(), 42)
	assert.Error(t, err)
}
