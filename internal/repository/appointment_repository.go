package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/papilonwash/carwash_bot/internal/model"
	"github.com/papilonwash/carwash_bot/internal/timeslot"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// Save сохраняет локальную копию подтверждённой записи
func (r *AppointmentRepository) Save(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (user_id, date, start_time, duration)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		appointment.UserID,
		appointment.Date,
		appointment.Start.String(),
		appointment.Duration,
	).Scan(&appointment.ID, &appointment.CreatedAt)

	if err != nil {
		return fmt.Errorf("save appointment: %w", err)
	}

	return nil
}

// ListByUser получает записи пользователя за включительный диапазон дат
func (r *AppointmentRepository) ListByUser(ctx context.Context, userID int64, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, user_id, date, start_time, duration, created_at
		FROM appointments
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time
	`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var appointment model.Appointment
		var startStr string
		err := rows.Scan(
			&appointment.ID,
			&appointment.UserID,
			&appointment.Date,
			&startStr,
			&appointment.Duration,
			&appointment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}

		start, err := timeslot.ParseTimeOfDay(startStr)
		if err != nil {
			return nil, fmt.Errorf("parse appointment start: %w", err)
		}
		appointment.Start = start

		appointments = append(appointments, &appointment)
	}

	return appointments, nil
}

// DeleteOlderThan удаляет копии записей с датой раньше указанной
func (r *AppointmentRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM appointments WHERE date < $1`

	result, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("delete old appointments: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteByUserAndDate удаляет записи пользователя на указанную дату
func (r *AppointmentRepository) DeleteByUserAndDate(ctx context.Context, userID int64, date time.Time) error {
	query := `DELETE FROM appointments WHERE user_id = $1 AND date = $2`

	if _, err := r.pool.Exec(ctx, query, userID, date); err != nil {
		return fmt.Errorf("delete appointments: %w", err)
	}

	return nil
}
