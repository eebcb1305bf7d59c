package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/papilonwash/carwash_bot/internal/model"
	"github.com/papilonwash/carwash_bot/internal/timeslot"
	"go.uber.org/zap"
)

// ErrService — внешний сервис расписания недоступен или вернул ошибку
var ErrService = errors.New("schedule service error")

const (
	dateLayout     = "2006-01-02"
	requestTimeout = 10 * time.Second
)

// Client — клиент внешнего сервиса расписания (get.php / set.php).
// Только отображение запросов и ответов, без бизнес-логики.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создаёт клиент сервиса расписания
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// FetchIntervals запрашивает все брони бокса на указанную дату
func (c *Client) FetchIntervals(ctx context.Context, date time.Time, box int) ([]timeslot.Interval, error) {
	query := url.Values{}
	query.Set("dates", "["+date.Format(dateLayout)+"]")
	query.Set("box", strconv.Itoa(box))

	reservations, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	intervals := make([]timeslot.Interval, 0, len(reservations))
	for _, r := range reservations {
		intervals = append(intervals, r.Interval)
	}
	return intervals, nil
}

// FetchUserReservations запрашивает брони пользователя за включительный диапазон дат
func (c *Client) FetchUserReservations(ctx context.Context, userID int64, box int, from, to time.Time) ([]model.Reservation, error) {
	query := url.Values{}
	query.Set("dates", "["+from.Format(dateLayout)+","+to.Format(dateLayout)+"]")
	query.Set("box", strconv.Itoa(box))
	query.Set("user_id", strconv.FormatInt(userID, 10))

	reservations, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	for i := range reservations {
		reservations[i].Box = box
	}
	return reservations, nil
}

// CreateReservation создаёт новую бронь (free=false, id назначает сервис)
func (c *Client) CreateReservation(ctx context.Context, r model.Reservation) error {
	return c.submit(ctx, r, false)
}

// CancelReservation освобождает существующую бронь (free=true по известному id)
func (c *Client) CancelReservation(ctx context.Context, r model.Reservation) error {
	if r.ID == "" {
		return fmt.Errorf("cancel reservation without id: %w", ErrService)
	}
	return c.submit(ctx, r, true)
}

// fetch выполняет запрос get.php и нормализует ответ
func (c *Client) fetch(ctx context.Context, query url.Values) ([]model.Reservation, error) {
	endpoint := c.baseURL + "/get.php?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w: %w", ErrService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read schedule response: %w: %w", ErrService, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch schedule: status %d: %w", resp.StatusCode, ErrService)
	}

	var boxes []wireBox
	if err := json.Unmarshal(body, &boxes); err != nil {
		return nil, fmt.Errorf("decode schedule response: %w: %w", ErrService, err)
	}

	return c.decodeReservations(boxes), nil
}

// decodeReservations разбирает элементы intervals по одному.
// Битые элементы пропускаются: недоступность данных деградирует
// до "считаем свободным", а не роняет весь ответ.
func (c *Client) decodeReservations(boxes []wireBox) []model.Reservation {
	var reservations []model.Reservation

	for _, box := range boxes {
		for _, raw := range box.Intervals {
			var wi wireInterval
			if err := json.Unmarshal(raw, &wi); err != nil {
				c.logger.Warn("Skipping malformed interval", zap.Error(err))
				continue
			}

			date, err := time.Parse(dateLayout, wi.Date)
			if err != nil {
				c.logger.Warn("Skipping interval with bad date", zap.String("date", wi.Date))
				continue
			}

			start, err := timeslot.ParseTimeOfDay(wi.Time.Start)
			if err != nil {
				c.logger.Warn("Skipping interval with bad start", zap.String("start", wi.Time.Start))
				continue
			}

			duration, ok := wi.Time.Duration.Minutes()
			if !ok {
				c.logger.Warn("Skipping interval with bad duration", zap.String("duration", string(wi.Time.Duration)))
				continue
			}

			ownerID, _ := wi.Person.ID.Int64()

			reservations = append(reservations, model.Reservation{
				ID:      string(wi.ID),
				OwnerID: ownerID,
				Interval: timeslot.Interval{
					Date:     date,
					Start:    start,
					Duration: duration,
				},
			})
		}
	}

	return reservations
}

// submit выполняет запрос set.php
func (c *Client) submit(ctx context.Context, r model.Reservation, free bool) error {
	payload := setRequest{
		Date: r.Interval.Date.Format(dateLayout),
		Time: setRequestTime{
			Start:    r.Interval.Start.String(),
			Duration: strconv.Itoa(r.Interval.Duration),
		},
		Free:    free,
		Service: false,
		Person:  wirePerson{ID: json.Number(strconv.FormatInt(r.OwnerID, 10))},
	}
	if r.ID != "" {
		payload.ID = &r.ID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode reservation: %w", err)
	}

	endpoint := c.baseURL + "/set.php?box=" + strconv.Itoa(r.Box)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit reservation: %w: %w", ErrService, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("submit reservation: status %d: %w", resp.StatusCode, ErrService)
	}

	return nil
}
