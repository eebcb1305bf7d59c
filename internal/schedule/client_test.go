package schedule

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/papilonwash/carwash_bot/internal/model"
	"github.com/papilonwash/carwash_bot/internal/timeslot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, zap.NewNop())
}

func TestFetchIntervals(t *testing.T) {
	var gotQuery map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"dates": r.URL.Query().Get("dates"),
			"box":   r.URL.Query().Get("box"),
		}
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		io.WriteString(w, `[{"intervals":[
			{"id":17,"date":"2026-09-01","time":{"start":"10:00","duration":"30"},"person":{"id":100}},
			{"id":"abc","date":"2026-09-01","time":{"start":"12:30","duration":45},"person":{"id":"200"}}
		]}]`)
	})

	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	intervals, err := client.FetchIntervals(context.Background(), date, 2)
	require.NoError(t, err)

	assert.Equal(t, "[2026-09-01]", gotQuery["dates"])
	assert.Equal(t, "2", gotQuery["box"])

	// id числом и строкой, duration строкой и числом — всё нормализуется
	require.Len(t, intervals, 2)
	assert.Equal(t, timeslot.NewTimeOfDay(10, 0), intervals[0].Start)
	assert.Equal(t, 30, intervals[0].Duration)
	assert.Equal(t, timeslot.NewTimeOfDay(12, 30), intervals[1].Start)
	assert.Equal(t, 45, intervals[1].Duration)
}

func TestFetchIntervalsSkipsMalformedEntries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"intervals":[
			{"id":1,"date":"not-a-date","time":{"start":"10:00","duration":"30"},"person":{"id":1}},
			{"id":2,"date":"2026-09-01","time":{"start":"99:99","duration":"30"},"person":{"id":1}},
			{"id":3,"date":"2026-09-01","time":{"start":"10:00","duration":"zero"},"person":{"id":1}},
			"not an object",
			{"id":4,"date":"2026-09-01","time":{"start":"11:00","duration":"15"},"person":{"id":1}}
		]}]`)
	})

	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	intervals, err := client.FetchIntervals(context.Background(), date, 1)
	require.NoError(t, err)

	require.Len(t, intervals, 1)
	assert.Equal(t, timeslot.NewTimeOfDay(11, 0), intervals[0].Start)
}

func TestFetchIntervalsMalformedIntervalsField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"intervals":"oops"},{}]`)
	})

	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	intervals, err := client.FetchIntervals(context.Background(), date, 1)

	// Битое или отсутствующее поле intervals — пустой список, не ошибка
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestFetchIntervalsServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchIntervals(context.Background(), date, 1)
	assert.ErrorIs(t, err, ErrService)
}

func TestFetchIntervalsBadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not":"an array"`)
	})

	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchIntervals(context.Background(), date, 1)
	assert.ErrorIs(t, err, ErrService)
}

func TestFetchUserReservations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "[2026-08-01,2026-09-01]", r.URL.Query().Get("dates"))
		assert.Equal(t, "777", r.URL.Query().Get("user_id"))
		io.WriteString(w, `[{"intervals":[
			{"id":"55","date":"2026-08-15","time":{"start":"09:00","duration":"60"},"person":{"id":777}}
		]}]`)
	})

	from := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	reservations, err := client.FetchUserReservations(context.Background(), 777, 3, from, to)
	require.NoError(t, err)

	require.Len(t, reservations, 1)
	assert.Equal(t, "55", reservations[0].ID)
	assert.Equal(t, int64(777), reservations[0].OwnerID)
	assert.Equal(t, 3, reservations[0].Box)
}

func TestCreateReservation(t *testing.T) {
	var got setRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/set.php", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("box"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})

	err := client.CreateReservation(context.Background(), model.Reservation{
		Box:     4,
		OwnerID: 777,
		Interval: timeslot.Interval{
			Date:     time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
			Start:    timeslot.NewTimeOfDay(10, 0),
			Duration: 30,
		},
	})
	require.NoError(t, err)

	assert.Nil(t, got.ID)
	assert.False(t, got.Free)
	assert.False(t, got.Service)
	assert.Equal(t, "2026-09-01", got.Date)
	assert.Equal(t, "10:00", got.Time.Start)
	assert.Equal(t, "30", got.Time.Duration)
	assert.Equal(t, json.Number("777"), got.Person.ID)
}

func TestCancelReservation(t *testing.T) {
	var got setRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})

	err := client.CancelReservation(context.Background(), model.Reservation{
		ID:      "55",
		Box:     1,
		OwnerID: 777,
		Interval: timeslot.Interval{
			Date:     time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
			Start:    timeslot.NewTimeOfDay(10, 0),
			Duration: 30,
		},
	})
	require.NoError(t, err)

	require.NotNil(t, got.ID)
	assert.Equal(t, "55", *got.ID)
	assert.True(t, got.Free)
}

func TestCancelReservationWithoutID(t *testing.T) {
	client := NewClient("http://unused", zap.NewNop())

	err := client.CancelReservation(context.Background(), model.Reservation{})
	assert.ErrorIs(t, err, ErrService)
}

func TestSubmitServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.CreateReservation(context.Background(), model.Reservation{
		Interval: timeslot.Interval{
			Date:     time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
			Start:    timeslot.NewTimeOfDay(10, 0),
			Duration: 30,
		},
	})
	assert.ErrorIs(t, err, ErrService)
}
