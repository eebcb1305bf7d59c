package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/papilonwash/carwash_bot/internal/model"
	"github.com/papilonwash/carwash_bot/internal/session"
	"github.com/papilonwash/carwash_bot/internal/timeslot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scheduleAPIMock struct {
	mock.Mock
}

func (m *scheduleAPIMock) FetchIntervals(ctx context.Context, date time.Time, box int) ([]timeslot.Interval, error) {
	args := m.Called(ctx, date, box)
	if v := args.Get(0); v != nil {
		return v.([]timeslot.Interval), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *scheduleAPIMock) FetchUserReservations(ctx context.Context, userID int64, box int, from, to time.Time) ([]model.Reservation, error) {
	args := m.Called(ctx, userID, box, from, to)
	if v := args.Get(0); v != nil {
		return v.([]model.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *scheduleAPIMock) CreateReservation(ctx context.Context, r model.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *scheduleAPIMock) CancelReservation(ctx context.Context, r model.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

// appointmentStoreFake — локальная копия записей в памяти
type appointmentStoreFake struct {
	mu      sync.Mutex
	saved   []*model.Appointment
	saveErr error
}

func (f *appointmentStoreFake) Save(_ context.Context, appointment *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, appointment)
	return nil
}

func (f *appointmentStoreFake) ListByUser(_ context.Context, userID int64, from, to time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Appointment
	for _, a := range f.saved {
		if a.UserID == userID && !a.Date.Before(from) && !a.Date.After(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *appointmentStoreFake) DeleteByUserAndDate(_ context.Context, userID int64, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.saved[:0]
	for _, a := range f.saved {
		if a.UserID != userID || !timeslot.SameDate(a.Date, date) {
			kept = append(kept, a)
		}
	}
	f.saved = kept
	return nil
}

// scheduleFake — stateful-заглушка внешнего сервиса: брони создаются,
// отменяются и видны в последующих запросах занятости
type scheduleFake struct {
	mu           sync.Mutex
	nextID       int
	reservations []model.Reservation
}

func (f *scheduleFake) FetchIntervals(_ context.Context, date time.Time, _ int) ([]timeslot.Interval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var intervals []timeslot.Interval
	for _, r := range f.reservations {
		if timeslot.SameDate(r.Interval.Date, date) {
			intervals = append(intervals, r.Interval)
		}
	}
	return intervals, nil
}

func (f *scheduleFake) FetchUserReservations(_ context.Context, userID int64, _ int, from, to time.Time) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []model.Reservation
	for _, r := range f.reservations {
		if r.OwnerID == userID && !r.Interval.Date.Before(from) && !r.Interval.Date.After(to) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *scheduleFake) CreateReservation(_ context.Context, r model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	r.ID = strconv.Itoa(f.nextID)
	f.reservations = append(f.reservations, r)
	return nil
}

func (f *scheduleFake) CancelReservation(_ context.Context, r model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.reservations {
		if f.reservations[i].ID == r.ID {
			f.reservations = append(f.reservations[:i], f.reservations[i+1:]...)
			return nil
		}
	}
	return errors.New("reservation not found")
}

var testNow = time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

func newTestBookingService(api ScheduleAPI, store AppointmentStore) *BookingService {
	svc := NewBookingService(api, store, session.NewManager(), 1, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func completeSelection(t *testing.T, svc *BookingService, userID int64, date time.Time) {
	t.Helper()
	svc.ChooseDate(userID, date)
	require.NoError(t, svc.ChooseTime(userID, timeslot.NewTimeOfDay(10, 0)))
	require.NoError(t, svc.ChooseDuration(userID, 30))
}

func TestListDateOptions(t *testing.T) {
	svc := newTestBookingService(&scheduleAPIMock{}, &appointmentStoreFake{})

	dates := svc.ListDateOptions()

	require.Len(t, dates, DateWindowDays+1)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), dates[DateWindowDays])
}

func TestListTimeOptionsDegradesToFree(t *testing.T) {
	api := &scheduleAPIMock{}
	api.On("FetchIntervals", mock.Anything, mock.Anything, 1).Return(nil, errors.New("connection refused"))

	svc := newTestBookingService(api, &appointmentStoreFake{})

	// Сервис лежит — расписание показывается как полностью свободное
	slots := svc.ListTimeOptions(context.Background(), time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC))

	require.Len(t, slots, timeslot.SlotsPerDay)
	for _, slot := range slots {
		assert.Equal(t, timeslot.SlotFree, slot.Status)
	}
}

func TestConfirmIncomplete(t *testing.T) {
	svc := newTestBookingService(&scheduleAPIMock{}, &appointmentStoreFake{})

	_, err := svc.Confirm(context.Background(), 42)
	assert.ErrorIs(t, err, session.ErrIncompleteSelection)
}

func TestConfirmSlotTaken(t *testing.T) {
	date := time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)

	api := &scheduleAPIMock{}
	api.On("FetchIntervals", mock.Anything, mock.Anything, 1).Return([]timeslot.Interval{
		{Date: date, Start: timeslot.NewTimeOfDay(10, 15), Duration: 15},
	}, nil)

	svc := newTestBookingService(api, &appointmentStoreFake{})
	completeSelection(t, svc, 42, date)

	_, err := svc.Confirm(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	api.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
}

func TestConfirmKeepsSessionOnFailure(t *testing.T) {
	date := time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)

	api := &scheduleAPIMock{}
	api.On("FetchIntervals", mock.Anything, mock.Anything, 1).Return(nil, nil)
	api.On("CreateReservation", mock.Anything, mock.Anything).Return(errors.New("gateway timeout")).Once()
	api.On("CreateReservation", mock.Anything, mock.Anything).Return(nil)

	store := &appointmentStoreFake{}
	svc := newTestBookingService(api, store)
	completeSelection(t, svc, 42, date)

	_, err := svc.Confirm(context.Background(), 42)
	require.ErrorIs(t, err, ErrBookingFailed)

	// Выбор не потерян, повторное подтверждение проходит без перевыбора
	assert.True(t, svc.Selection(42).Complete())

	booked, err := svc.Confirm(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, date, booked.Date)
	assert.Equal(t, timeslot.NewTimeOfDay(10, 0), booked.Start)
	assert.Equal(t, 30, booked.Duration)

	// После успеха сессия сброшена, локальная копия сохранена
	assert.False(t, svc.Selection(42).Complete())
	require.Len(t, store.saved, 1)
	assert.Equal(t, int64(42), store.saved[0].UserID)
}

func TestConfirmRecheckSkippedWhenServiceDown(t *testing.T) {
	date := time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)

	api := &scheduleAPIMock{}
	api.On("FetchIntervals", mock.Anything, mock.Anything, 1).Return(nil, errors.New("service down"))
	api.On("CreateReservation", mock.Anything, mock.Anything).Return(nil)

	svc := newTestBookingService(api, &appointmentStoreFake{})
	completeSelection(t, svc, 42, date)

	// Перепроверка недоступна — подтверждение всё равно отправляется
	booked, err := svc.Confirm(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, date, booked.Date)
}

func TestConfirmSurvivesStoreFailure(t *testing.T) {
	date := time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)

	api := &scheduleAPIMock{}
	api.On("FetchIntervals", mock.Anything, mock.Anything, 1).Return(nil, nil)
	api.On("CreateReservation", mock.Anything, mock.Anything).Return(nil)

	store := &appointmentStoreFake{saveErr: errors.New("connection reset")}
	svc := newTestBookingService(api, store)
	completeSelection(t, svc, 42, date)

	// Ошибка локальной копии не отменяет успешную бронь
	_, err := svc.Confirm(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, svc.Selection(42).Complete())
}

func TestBookingRoundTrip(t *testing.T) {
	fake := &scheduleFake{}
	store := &appointmentStoreFake{}
	svc := newTestBookingService(fake, store)

	// Бронь на сегодня, чтобы проверить и чистку локальной копии при отмене
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	svc.ChooseDate(42, date)
	require.NoError(t, svc.ChooseTime(42, timeslot.NewTimeOfDay(12, 0)))
	require.NoError(t, svc.ChooseDuration(42, 30))

	_, err := svc.Confirm(ctx, 42)
	require.NoError(t, err)

	// Забронированное окно стало занятым в сетке
	slots := svc.ListTimeOptions(ctx, date)
	assert.Equal(t, timeslot.SlotBusy, slotStatus(t, slots, timeslot.NewTimeOfDay(12, 0)))
	assert.Equal(t, timeslot.SlotBusy, slotStatus(t, slots, timeslot.NewTimeOfDay(12, 15)))
	assert.Equal(t, timeslot.SlotFree, slotStatus(t, slots, timeslot.NewTimeOfDay(12, 30)))

	bookings, err := svc.ListMyBookings(ctx, 42, DateWindowDays)
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	canceled, err := svc.Cancel(ctx, 42, bookings[0].ID)
	require.NoError(t, err)
	assert.Equal(t, timeslot.NewTimeOfDay(12, 0), canceled.Interval.Start)

	// Окно снова свободно, локальная копия удалена
	slots = svc.ListTimeOptions(ctx, date)
	assert.Equal(t, timeslot.SlotFree, slotStatus(t, slots, timeslot.NewTimeOfDay(12, 0)))
	assert.Empty(t, store.saved)
}

func TestCancelNotFound(t *testing.T) {
	api := &scheduleAPIMock{}
	api.On("FetchUserReservations", mock.Anything, int64(42), 1, mock.Anything, mock.Anything).Return(nil, nil)

	svc := newTestBookingService(api, &appointmentStoreFake{})

	_, err := svc.Cancel(context.Background(), 42, "55")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelServiceFailure(t *testing.T) {
	date := time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)
	existing := model.Reservation{
		ID:      "55",
		Box:     1,
		OwnerID: 42,
		Interval: timeslot.Interval{
			Date:     date,
			Start:    timeslot.NewTimeOfDay(10, 0),
			Duration: 30,
		},
	}

	api := &scheduleAPIMock{}
	api.On("FetchUserReservations", mock.Anything, int64(42), 1, mock.Anything, mock.Anything).
		Return([]model.Reservation{existing}, nil)
	api.On("CancelReservation", mock.Anything, mock.MatchedBy(func(r model.Reservation) bool {
		return r.ID == "55" && r.Cancellation
	})).Return(errors.New("gateway timeout"))

	svc := newTestBookingService(api, &appointmentStoreFake{})

	_, err := svc.Cancel(context.Background(), 42, "55")
	assert.ErrorIs(t, err, ErrCancelFailed)
}

func TestListArchiveFallsBackToLocalCopy(t *testing.T) {
	api := &scheduleAPIMock{}
	api.On("FetchUserReservations", mock.Anything, int64(42), 1, mock.Anything, mock.Anything).
		Return(nil, errors.New("service down"))

	store := &appointmentStoreFake{}
	archived := &model.Appointment{
		UserID:   42,
		Date:     time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC),
		Start:    timeslot.NewTimeOfDay(14, 0),
		Duration: 45,
	}
	require.NoError(t, store.Save(context.Background(), archived))

	svc := newTestBookingService(api, store)

	reservations, err := svc.ListArchive(context.Background(), 42, 30)
	require.NoError(t, err)

	require.Len(t, reservations, 1)
	assert.Equal(t, archived.Date, reservations[0].Interval.Date)
	assert.Equal(t, archived.Start, reservations[0].Interval.Start)
	assert.Equal(t, archived.Duration, reservations[0].Interval.Duration)
}

func slotStatus(t *testing.T, slots []timeslot.Slot, start timeslot.TimeOfDay) timeslot.SlotStatus {
	t.Helper()
	for _, s := range slots {
		if s.Start == start {
			return s.Status
		}
	}
	t.Fatalf("slot %s not found", start)
	return timeslot.SlotFree
}
