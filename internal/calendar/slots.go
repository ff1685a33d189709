package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Leganyst/reserveasy/internal/model"
)

// DateLayout — формат даты слота (ISO 8601, только дата).
const DateLayout = "2006-01-02"

// DaysToGenerate — на сколько дней вперёд (включая сегодня) генерируются слоты.
const DaysToGenerate = 7

// SlotHours — часы начала слотов; 12:00 — перерыв.
var SlotHours = []int{9, 10, 11, 13, 14, 15, 16, 17}

const HoursPerDay = 24

var (
	ErrInvalidHour      = errors.New("invalid hour label")
	ErrInvalidTimeRange = errors.New("end must be after start")
)

// HourLabel форматирует час как "HH:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// ParseHour извлекает час из метки вида "HH:MM" (минуты игнорируются).
func ParseHour(label string) (int, error) {
	head, _, _ := strings.Cut(label, ":")
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, label)
	}
	return h, nil
}

// HourLabels возвращает метки часов в полуоткрытом интервале [startHour, endHour),
// обрезанном до суток [0, HoursPerDay).
func HourLabels(startHour, endHour int) []string {
	startHour = max(startHour, 0)
	endHour = min(endHour, HoursPerDay)
	if endHour <= startHour {
		return []string{}
	}
	labels := make([]string, 0, endHour-startHour)
	for h := startHour; h < endHour; h++ {
		labels = append(labels, HourLabel(h))
	}
	return labels
}

// HoursBetween — длительность интервала start..end в целых часах.
// Часы должны лежать в пределах суток (конец может быть "24:00").
// Возвращает ErrInvalidTimeRange, если конец не позже начала.
func HoursBetween(start, end string) (int, error) {
	startHour, err := ParseHour(start)
	if err != nil {
		return 0, err
	}
	endHour, err := ParseHour(end)
	if err != nil {
		return 0, err
	}
	if startHour < 0 || startHour >= HoursPerDay {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, start)
	}
	if endHour > HoursPerDay {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, end)
	}
	if endHour <= startHour {
		return 0, ErrInvalidTimeRange
	}
	return endHour - startHour, nil
}

// GenerateSlots строит календарь на DaysToGenerate дней начиная с даты now
// (в часовом поясе now) по часам SlotHours. Идентификаторы идут подряд от firstID.
func GenerateSlots(now time.Time, firstID int64) []model.Slot {
	slots := make([]model.Slot, 0, DaysToGenerate*len(SlotHours))
	id := firstID
	day := dateOnly(now)
	for d := 0; d < DaysToGenerate; d++ {
		date := day.AddDate(0, 0, d).Format(DateLayout)
		for _, h := range SlotHours {
			slots = append(slots, model.Slot{
				ID:       id,
				Date:     date,
				Time:     HourLabel(h),
				Reserved: false,
			})
			id++
		}
	}
	return slots
}

// Today — текущая дата now в формате DateLayout.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// ===== Форматирование брони для пользователя =====

var frWeekdays = map[time.Weekday]string{
	time.Monday:    "lundi",
	time.Tuesday:   "mardi",
	time.Wednesday: "mercredi",
	time.Thursday:  "jeudi",
	time.Friday:    "vendredi",
	time.Saturday:  "samedi",
	time.Sunday:    "dimanche",
}

// FormatRangeForUser форматирует дату и интервал: "mercredi 01/01/2025, 09:00–11:00".
// Если дата не разбирается, она выводится как есть.
func FormatRangeForUser(date, start, end string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Sprintf("%s, %s–%s", date, start, end)
	}
	return fmt.Sprintf("%s %s, %s–%s", frWeekdays[d.Weekday()], d.Format("02/01/2006"), start, end)
}
