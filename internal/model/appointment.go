package model

import (
	"time"

	"github.com/papilonwash/carwash_bot/internal/timeslot"
)

// Appointment — локальная копия подтверждённой записи на мойку.
// Источник истины по занятости — внешний сервис расписания; копия
// служит для архива и работы при его недоступности.
type Appointment struct {
	ID        int64
	UserID    int64
	Date      time.Time
	Start     timeslot.TimeOfDay
	Duration  int
	CreatedAt time.Time
}
