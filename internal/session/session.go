package session

import (
	"errors"
	"sync"
	"time"

	"github.com/papilonwash/carwash_bot/internal/timeslot"
)

// ErrIncompleteSelection — шаг диалога вызван раньше времени
// (например, выбор времени без выбранной даты)
var ErrIncompleteSelection = errors.New("incomplete selection")

// Session — выбор пользователя в процессе записи на мойку.
// Проходит шаги дата → время → длительность; каждое поле заполняется
// только после предыдущего. Состояние эфемерное, теряется при рестарте.
type Session struct {
	Date     time.Time
	Start    timeslot.TimeOfDay
	HasStart bool
	Duration int
}

// HasDate сообщает выбрана ли дата
func (s Session) HasDate() bool {
	return !s.Date.IsZero()
}

// HasDuration сообщает выбрана ли длительность
func (s Session) HasDuration() bool {
	return s.Duration > 0
}

// Complete сообщает заполнены ли все три шага
func (s Session) Complete() bool {
	return s.HasDate() && s.HasStart && s.HasDuration()
}

// Manager управляет сессиями записи, по одной на пользователя.
// Доступ сериализован: параллельные действия одного пользователя
// (например, двойное нажатие) не портят состояние.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewManager создаёт новый менеджер сессий
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// SetDate устанавливает дату. Допустим на любом шаге; выбранные ранее
// время и длительность сбрасываются, так как считались для другой даты.
func (m *Manager) SetDate(userID int64, date time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = &Session{Date: date}
}

// SetTime устанавливает время начала; требует уже выбранной даты
func (m *Manager) SetTime(userID int64, start timeslot.TimeOfDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sessions[userID]
	if !exists || !s.HasDate() {
		return ErrIncompleteSelection
	}

	s.Start = start
	s.HasStart = true
	s.Duration = 0
	return nil
}

// SetDuration устанавливает длительность; требует выбранных даты и времени
func (m *Manager) SetDuration(userID int64, minutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sessions[userID]
	if !exists || !s.HasDate() || !s.HasStart {
		return ErrIncompleteSelection
	}

	s.Duration = minutes
	return nil
}

// Reset очищает сессию пользователя (после подтверждения или отмены)
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// Snapshot возвращает копию текущего выбора для отображения сводки
func (m *Manager) Snapshot(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, exists := m.sessions[userID]; exists {
		return *s
	}
	return Session{}
}
