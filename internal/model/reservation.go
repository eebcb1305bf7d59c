package model

import "github.com/papilonwash/carwash_bot/internal/timeslot"

// Reservation — бронь во внешнем сервисе расписания. ID назначается
// сервисом и приходит числом или строкой, поэтому хранится строкой.
type Reservation struct {
	ID           string
	Box          int
	OwnerID      int64
	Interval     timeslot.Interval
	Cancellation bool
}
