package formatting

import (
	"fmt"
	"time"

	"github.com/papilonwash/carwash_bot/internal/model"
	"github.com/papilonwash/carwash_bot/internal/timeslot"
)

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday time.Weekday) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if int(weekday) >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "?"
}

// DateButtonLabel подписывает кнопку выбора даты
func DateButtonLabel(date, today time.Time) string {
	switch {
	case timeslot.SameDate(date, today):
		return "Сегодня"
	case timeslot.SameDate(date, today.AddDate(0, 0, 1)):
		return "Завтра"
	default:
		return fmt.Sprintf("%s %s", GetWeekdayShortName(date.Weekday()), date.Format("02.01"))
	}
}

// FormatTimeRange форматирует окно брони как "10:15-10:45".
// Окно, переходящее через полночь, показывается по модулю суток.
func FormatTimeRange(start timeslot.TimeOfDay, durationMinutes int) string {
	end := timeslot.TimeOfDay((int(start) + durationMinutes) % timeslot.MinutesPerDay)
	return fmt.Sprintf("%s-%s", start, end)
}

// FormatReservation форматирует бронь для списков записей
func FormatReservation(r model.Reservation) string {
	return fmt.Sprintf(
		"📅 %s · %s (%s)",
		FormatDate(r.Interval.Date),
		FormatTimeRange(r.Interval.Start, r.Interval.Duration),
		FormatDuration(r.Interval.Duration),
	)
}
