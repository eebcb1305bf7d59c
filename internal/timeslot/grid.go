package timeslot

import "time"

// Interval — занятое окно времени брони. Может переходить через полночь:
// тогда End() превышает MinutesPerDay, и остаток принадлежит следующему дню.
type Interval struct {
	Date     time.Time
	Start    TimeOfDay
	Duration int // минуты
}

// End возвращает конец интервала в минутах с полуночи его дня (может быть > 1440)
func (i Interval) End() int {
	return int(i.Start) + i.Duration
}

// OverflowMinutes возвращает часть интервала, перешедшую на следующий день
func (i Interval) OverflowMinutes() int {
	if overflow := i.End() - MinutesPerDay; overflow > 0 {
		return overflow
	}
	return 0
}

// SlotStatus — статус слота в сетке дня
type SlotStatus string

const (
	SlotFree SlotStatus = "free" // Свободен, можно записаться
	SlotBusy SlotStatus = "busy" // Пересекается с существующей бронью
	SlotPast SlotStatus = "past" // Уже прошёл (только для сегодняшней сетки)
)

// Slot — один слот сетки дня
type Slot struct {
	Start  TimeOfDay
	Status SlotStatus
}

// Selectable сообщает можно ли предложить слот для записи
func (s Slot) Selectable() bool {
	return s.Status == SlotFree
}

// CandidateDurations — допустимые длительности мойки в минутах
var CandidateDurations = []int{15, 30, 45, 60}

// overlaps проверяет пересечение полуоткрытых окон [aStart, aEnd) и [bStart, bEnd).
// Касание границ пересечением не считается.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// SameDate сравнивает календарные даты, игнорируя время
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// BuildDayGrid строит сетку слотов одного дня по существующим броням.
// dayIntervals — брони самого дня, prevDayIntervals — брони предыдущего дня
// (их переход через полночь занимает начало текущего дня). Если date совпадает
// с датой now, слоты с началом не позже текущей минуты помечаются как прошедшие.
func BuildDayGrid(date time.Time, dayIntervals, prevDayIntervals []Interval, now time.Time, granularity int) []Slot {
	count := MinutesPerDay / granularity
	grid := make([]Slot, count)

	for i := range grid {
		grid[i] = Slot{Start: TimeOfDay(i * granularity), Status: SlotFree}
	}

	// Переход вчерашних броней через полночь занимает [0, overflow)
	for _, iv := range prevDayIntervals {
		overflow := iv.OverflowMinutes()
		for i := range grid {
			slotStart := i * granularity
			if overlaps(slotStart, slotStart+granularity, 0, overflow) {
				grid[i].Status = SlotBusy
			}
		}
	}

	for _, iv := range dayIntervals {
		for i := range grid {
			slotStart := i * granularity
			if overlaps(slotStart, slotStart+granularity, int(iv.Start), iv.End()) {
				grid[i].Status = SlotBusy
			}
		}
	}

	// Прошедшие слоты перекрывают статус busy
	if SameDate(date, now) {
		nowMinutes := int(FromClock(now))
		for i := range grid {
			if i*granularity <= nowMinutes {
				grid[i].Status = SlotPast
			}
		}
	}

	return grid
}

// AvailableDurations возвращает подмножество candidates, с которыми окно
// [start, start+duration) не пересекается ни с одной из броней дня.
// Порядок candidates сохраняется; пустой результат — допустимый ответ.
func AvailableDurations(start TimeOfDay, candidates []int, intervals []Interval) []int {
	available := make([]int, 0, len(candidates))

	for _, duration := range candidates {
		collides := false
		for _, iv := range intervals {
			if overlaps(int(start), int(start)+duration, int(iv.Start), iv.End()) {
				collides = true
				break
			}
		}
		if !collides {
			available = append(available, duration)
		}
	}

	return available
}
