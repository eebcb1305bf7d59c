package schedule

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Внешний сервис отдаёт JSON без строгой схемы: id брони бывает числом или
// строкой, duration — строкой минут. Разбор на границе приводит всё к
// нормализованному виду, битые элементы отбрасываются.

// flexString принимает JSON-строку или число и хранит их как строку
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Minutes разбирает значение как целое число минут
func (f flexString) Minutes() (int, bool) {
	n, err := strconv.Atoi(string(f))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type wireTime struct {
	Start    string     `json:"start"`
	Duration flexString `json:"duration"`
}

type wirePerson struct {
	ID json.Number `json:"id"`
}

type wireInterval struct {
	ID     flexString `json:"id"`
	Date   string     `json:"date"`
	Time   wireTime   `json:"time"`
	Person wirePerson `json:"person"`
}

// rawList принимает JSON-массив; отсутствующее или малформленное
// поле считается пустым списком, а не ошибкой
type rawList []json.RawMessage

func (l *rawList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// wireBox — один ресурс (бокс) в ответе get.php. Каждый элемент intervals
// декодируется отдельно, чтобы один битый объект не ронял весь ответ.
type wireBox struct {
	Intervals rawList `json:"intervals"`
}

// setRequest — тело запроса set.php. free=true освобождает бронь с указанным
// id, free=false создаёт новую (id назначает сервис).
type setRequest struct {
	ID      *string        `json:"id"`
	Date    string         `json:"date"`
	Time    setRequestTime `json:"time"`
	Free    bool           `json:"free"`
	Service bool           `json:"service"`
	Person  wirePerson     `json:"person"`
}

type setRequestTime struct {
	Start    string `json:"start"`
	Duration string `json:"duration"`
}
