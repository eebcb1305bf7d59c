package service

import "errors"

// Ошибки уровня сценариев. Сырые транспортные ошибки внешнего сервиса
// и хранилища до презентационного слоя не доходят — они сворачиваются
// в эту таксономию на границе сервисов.
var (
	// ErrDuplicateRegistration — пользователь или телефон уже зарегистрирован
	ErrDuplicateRegistration = errors.New("already registered")

	// ErrNotFound — бронь не найдена среди записей пользователя
	ErrNotFound = errors.New("reservation not found")

	// ErrBookingFailed — создание брони не удалось, сессия сохранена для повтора
	ErrBookingFailed = errors.New("booking failed")

	// ErrCancelFailed — отмена не удалась, бронь остаётся активной
	ErrCancelFailed = errors.New("cancellation failed")

	// ErrSlotUnavailable — выбранное окно успели занять между выбором и подтверждением
	ErrSlotUnavailable = errors.New("slot no longer available")
)
