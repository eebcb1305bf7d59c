package model

import "time"

// User — авторизованный пользователь бота (привязка telegram id к телефону)
type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}
