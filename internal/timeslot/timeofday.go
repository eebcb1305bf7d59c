package timeslot

import (
	"fmt"
	"time"
)

// TimeOfDay — время суток с точностью до минуты (минуты с полуночи, 0-1439).
type TimeOfDay int

const (
	// MinutesPerDay — количество минут в сутках
	MinutesPerDay = 1440

	// Granularity — ширина слота в минутах
	Granularity = 15

	// SlotsPerDay — количество слотов в сутках при стандартной ширине
	SlotsPerDay = MinutesPerDay / Granularity
)

// NewTimeOfDay создаёт время суток из часов и минут
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay разбирает строку вида "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return NewTimeOfDay(hour, minute), nil
}

// FromClock берёт время суток из time.Time, отбрасывая секунды
func FromClock(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// Hour возвращает часы
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute возвращает минуты внутри часа
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// Valid проверяет что время находится в пределах суток
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// String форматирует время как "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
