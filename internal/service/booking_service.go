package service

import (
	"context"
	"fmt"
	"time"

	"github.com/papilonwash/carwash_bot/internal/model"
	"github.com/papilonwash/carwash_bot/internal/session"
	"github.com/papilonwash/carwash_bot/internal/timeslot"
	"go.uber.org/zap"
)

// DateWindowDays — горизонт календаря для выбора даты записи
const DateWindowDays = 30

// ScheduleAPI — внешний сервис расписания (источник истины по занятости)
type ScheduleAPI interface {
	FetchIntervals(ctx context.Context, date time.Time, box int) ([]timeslot.Interval, error)
	FetchUserReservations(ctx context.Context, userID int64, box int, from, to time.Time) ([]model.Reservation, error)
	CreateReservation(ctx context.Context, r model.Reservation) error
	CancelReservation(ctx context.Context, r model.Reservation) error
}

// AppointmentStore — локальная копия подтверждённых записей
type AppointmentStore interface {
	Save(ctx context.Context, appointment *model.Appointment) error
	ListByUser(ctx context.Context, userID int64, from, to time.Time) ([]*model.Appointment, error)
	DeleteByUserAndDate(ctx context.Context, userID int64, date time.Time) error
}

// ConfirmedBooking — результат успешного подтверждения записи
type ConfirmedBooking struct {
	Date     time.Time
	Start    timeslot.TimeOfDay
	Duration int
}

// BookingService ведёт диалог записи: держит сессии выбора, запрашивает
// занятость у внешнего сервиса и прогоняет её через сетку слотов.
// Занятость не кэшируется: между шагами пользователя расписание может
// измениться, поэтому каждый запрос идёт к сервису заново.
type BookingService struct {
	api          ScheduleAPI
	appointments AppointmentStore
	sessions     *session.Manager
	box          int
	now          func() time.Time
	logger       *zap.Logger
}

func NewBookingService(
	api ScheduleAPI,
	appointments AppointmentStore,
	sessions *session.Manager,
	box int,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		api:          api,
		appointments: appointments,
		sessions:     sessions,
		box:          box,
		now:          time.Now,
		logger:       logger,
	}
}

// ListDateOptions возвращает даты, доступные для записи:
// сегодня и скользящее окно следующих DateWindowDays дней
func (s *BookingService) ListDateOptions() []time.Time {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	dates := make([]time.Time, 0, DateWindowDays+1)
	for i := 0; i <= DateWindowDays; i++ {
		dates = append(dates, today.AddDate(0, 0, i))
	}
	return dates
}

// ListTimeOptions строит сетку слотов дня. Недоступность внешнего сервиса
// деградирует до "считаем свободным" с предупреждением в логе — это
// осознанный риск, пользователю расписание показывается как best effort.
func (s *BookingService) ListTimeOptions(ctx context.Context, date time.Time) []timeslot.Slot {
	dayIntervals := s.fetchIntervalsBestEffort(ctx, date)
	prevDayIntervals := s.fetchIntervalsBestEffort(ctx, date.AddDate(0, 0, -1))

	return timeslot.BuildDayGrid(date, dayIntervals, prevDayIntervals, s.now(), timeslot.Granularity)
}

// ListDurationOptions возвращает длительности, помещающиеся от указанного
// времени без пересечения с существующими бронями. Пустой список —
// корректный ответ "ничего не помещается", а не ошибка.
func (s *BookingService) ListDurationOptions(ctx context.Context, date time.Time, start timeslot.TimeOfDay) []int {
	intervals := s.fetchIntervalsBestEffort(ctx, date)
	return timeslot.AvailableDurations(start, timeslot.CandidateDurations, intervals)
}

// ChooseDate записывает выбранную дату в сессию
func (s *BookingService) ChooseDate(userID int64, date time.Time) {
	s.sessions.SetDate(userID, date)
}

// ChooseTime записывает выбранное время в сессию
func (s *BookingService) ChooseTime(userID int64, start timeslot.TimeOfDay) error {
	return s.sessions.SetTime(userID, start)
}

// ChooseDuration записывает выбранную длительность в сессию
func (s *BookingService) ChooseDuration(userID int64, minutes int) error {
	return s.sessions.SetDuration(userID, minutes)
}

// Selection возвращает текущий выбор пользователя для сводки
func (s *BookingService) Selection(userID int64) session.Session {
	return s.sessions.Snapshot(userID)
}

// AbortSelection сбрасывает незавершённый диалог записи
func (s *BookingService) AbortSelection(userID int64) {
	s.sessions.Reset(userID)
}

// Confirm подтверждает запись: перепроверяет доступность окна, отправляет
// бронь во внешний сервис и сохраняет локальную копию. При ошибке сервиса
// сессия сохраняется — пользователь может повторить подтверждение.
func (s *BookingService) Confirm(ctx context.Context, userID int64) (*ConfirmedBooking, error) {
	selection := s.sessions.Snapshot(userID)
	if !selection.Complete() {
		return nil, session.ErrIncompleteSelection
	}

	// Перепроверка занятости: другой пользователь мог занять окно
	// между выбором времени и подтверждением
	intervals, err := s.api.FetchIntervals(ctx, selection.Date, s.box)
	if err != nil {
		s.logger.Warn("Availability re-check skipped, schedule service unavailable", zap.Error(err))
	} else {
		available := timeslot.AvailableDurations(selection.Start, timeslot.CandidateDurations, intervals)
		if !containsDuration(available, selection.Duration) {
			return nil, ErrSlotUnavailable
		}
	}

	reservation := model.Reservation{
		Box:     s.box,
		OwnerID: userID,
		Interval: timeslot.Interval{
			Date:     selection.Date,
			Start:    selection.Start,
			Duration: selection.Duration,
		},
	}

	if err := s.api.CreateReservation(ctx, reservation); err != nil {
		s.logger.Error("Failed to create reservation",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}

	// Локальная копия не обязана быть транзакционно согласованной
	// с внешним сервисом: ошибка записи не отменяет бронь
	appointment := &model.Appointment{
		UserID:   userID,
		Date:     selection.Date,
		Start:    selection.Start,
		Duration: selection.Duration,
	}
	if err := s.appointments.Save(ctx, appointment); err != nil {
		s.logger.Error("Failed to save appointment copy", zap.Error(err))
	}

	s.sessions.Reset(userID)

	s.logger.Info("Booking confirmed",
		zap.Int64("user_id", userID),
		zap.String("date", selection.Date.Format("2006-01-02")),
		zap.String("start", selection.Start.String()),
		zap.Int("duration", selection.Duration),
	)

	return &ConfirmedBooking{
		Date:     selection.Date,
		Start:    selection.Start,
		Duration: selection.Duration,
	}, nil
}

// ListMyBookings возвращает предстоящие брони пользователя
// за горизонт horizonDays от сегодняшнего дня
func (s *BookingService) ListMyBookings(ctx context.Context, userID int64, horizonDays int) ([]model.Reservation, error) {
	today := s.today()
	reservations, err := s.api.FetchUserReservations(ctx, userID, s.box, today, today.AddDate(0, 0, horizonDays))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return reservations, nil
}

// ListArchive возвращает прошедшие брони за daysBack дней. Если внешний
// сервис недоступен, архив собирается из локальной копии записей.
func (s *BookingService) ListArchive(ctx context.Context, userID int64, daysBack int) ([]model.Reservation, error) {
	today := s.today()
	from := today.AddDate(0, 0, -daysBack)
	to := today.AddDate(0, 0, -1)

	reservations, err := s.api.FetchUserReservations(ctx, userID, s.box, from, to)
	if err == nil {
		return reservations, nil
	}

	s.logger.Warn("Schedule service unavailable, falling back to local archive", zap.Error(err))

	appointments, storeErr := s.appointments.ListByUser(ctx, userID, from, to)
	if storeErr != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}

	reservations = make([]model.Reservation, 0, len(appointments))
	for _, a := range appointments {
		reservations = append(reservations, model.Reservation{
			Box:     s.box,
			OwnerID: a.UserID,
			Interval: timeslot.Interval{
				Date:     a.Date,
				Start:    a.Start,
				Duration: a.Duration,
			},
		})
	}
	return reservations, nil
}

// Cancel отменяет бронь пользователя. Бронь ищется среди предстоящих
// записей; отмена отправляется с тем же id/датой/временем/длительностью.
func (s *BookingService) Cancel(ctx context.Context, userID int64, reservationID string) (*model.Reservation, error) {
	reservations, err := s.ListMyBookings(ctx, userID, DateWindowDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelFailed, err)
	}

	var target *model.Reservation
	for i := range reservations {
		if reservations[i].ID == reservationID {
			target = &reservations[i]
			break
		}
	}
	if target == nil {
		return nil, ErrNotFound
	}

	cancellation := *target
	cancellation.Cancellation = true

	if err := s.api.CancelReservation(ctx, cancellation); err != nil {
		s.logger.Error("Failed to cancel reservation",
			zap.Int64("user_id", userID),
			zap.String("reservation_id", reservationID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrCancelFailed, err)
	}

	// Чистим локальную копию, если отменили сегодняшнюю запись
	if timeslot.SameDate(target.Interval.Date, s.now()) {
		if err := s.appointments.DeleteByUserAndDate(ctx, userID, target.Interval.Date); err != nil {
			s.logger.Error("Failed to delete appointment copy", zap.Error(err))
		}
	}

	s.logger.Info("Booking canceled",
		zap.Int64("user_id", userID),
		zap.String("reservation_id", reservationID),
	)

	return target, nil
}

// fetchIntervalsBestEffort запрашивает брони дня, деградируя до пустого
// списка при недоступности сервиса
func (s *BookingService) fetchIntervalsBestEffort(ctx context.Context, date time.Time) []timeslot.Interval {
	intervals, err := s.api.FetchIntervals(ctx, date, s.box)
	if err != nil {
		s.logger.Warn("Failed to fetch intervals, assuming free",
			zap.String("date", date.Format("2006-01-02")),
			zap.Error(err),
		)
		return nil
	}
	return intervals
}

func (s *BookingService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func containsDuration(durations []int, want int) bool {
	for _, d := range durations {
		if d == want {
			return true
		}
	}
	return false
}
