package session

import (
	"testing"
	"time"

	"github.com/papilonwash/carwash_bot/internal/timeslot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTimeBeforeDate(t *testing.T) {
	m := NewManager()

	err := m.SetTime(42, timeslot.NewTimeOfDay(10, 0))
	assert.ErrorIs(t, err, ErrIncompleteSelection)
}

func TestSetDurationBeforeTime(t *testing.T) {
	m := NewManager()
	m.SetDate(42, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	err := m.SetDuration(42, 30)
	assert.ErrorIs(t, err, ErrIncompleteSelection)
}

func TestOrderedFlow(t *testing.T) {
	m := NewManager()
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	m.SetDate(42, date)
	require.NoError(t, m.SetTime(42, timeslot.NewTimeOfDay(10, 0)))
	require.NoError(t, m.SetDuration(42, 30))

	s := m.Snapshot(42)
	assert.True(t, s.Complete())
	assert.Equal(t, date, s.Date)
	assert.Equal(t, timeslot.NewTimeOfDay(10, 0), s.Start)
	assert.Equal(t, 30, s.Duration)
}

func TestSetDateClearsLaterSteps(t *testing.T) {
	m := NewManager()
	first := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)

	m.SetDate(42, first)
	require.NoError(t, m.SetTime(42, timeslot.NewTimeOfDay(10, 0)))
	require.NoError(t, m.SetDuration(42, 30))

	// Смена даты обнуляет время и длительность: они выбирались для другого дня
	m.SetDate(42, second)

	s := m.Snapshot(42)
	assert.Equal(t, second, s.Date)
	assert.False(t, s.HasStart)
	assert.False(t, s.HasDuration())
	assert.False(t, s.Complete())
}

func TestSetTimeClearsDuration(t *testing.T) {
	m := NewManager()
	m.SetDate(42, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, m.SetTime(42, timeslot.NewTimeOfDay(10, 0)))
	require.NoError(t, m.SetDuration(42, 60))

	require.NoError(t, m.SetTime(42, timeslot.NewTimeOfDay(11, 0)))

	s := m.Snapshot(42)
	assert.Equal(t, timeslot.NewTimeOfDay(11, 0), s.Start)
	assert.False(t, s.HasDuration())
}

func TestReset(t *testing.T) {
	m := NewManager()
	m.SetDate(42, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	m.Reset(42)

	s := m.Snapshot(42)
	assert.False(t, s.HasDate())
	assert.ErrorIs(t, m.SetTime(42, timeslot.NewTimeOfDay(10, 0)), ErrIncompleteSelection)
}

func TestSessionsIsolatedPerUser(t *testing.T) {
	m := NewManager()
	m.SetDate(1, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	assert.False(t, m.Snapshot(2).HasDate())
	assert.ErrorIs(t, m.SetTime(2, timeslot.NewTimeOfDay(10, 0)), ErrIncompleteSelection)
}
