package handlers

import "github.com/go-telegram/bot/models"

// Кнопки reply-меню
const (
	BtnBook       = "📅 Записаться на мойку"
	BtnCabinet    = "👤 Личный кабинет"
	BtnArchive    = "📜 Архив моек"
	BtnMyBookings = "📋 Мои текущие записи"
	BtnBackToMenu = "🔙 Вернуться в меню"
	BtnAuthorize  = "📱 Авторизироваться"
)

// mainMenu — главное меню бота
func mainMenu() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{
				{Text: BtnBook},
				{Text: BtnCabinet},
			},
		},
		ResizeKeyboard: true,
	}
}

// authKeyboard — клавиатура авторизации через отправку контакта
func authKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{
				{Text: BtnAuthorize, RequestContact: true},
			},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

// cabinetMenu — меню личного кабинета
func cabinetMenu() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{
				{Text: BtnArchive},
				{Text: BtnMyBookings},
			},
			{
				{Text: BtnBackToMenu},
			},
		},
		ResizeKeyboard: true,
	}
}
