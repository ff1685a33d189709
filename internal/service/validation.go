package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Leganyst/reserveasy/internal/calendar"
	"github.com/Leganyst/reserveasy/internal/model"
)

var (
	ErrNameRequired      = errors.New("name is required")
	ErrSpecialtyRequired = errors.New("specialty is required")
	ErrInvalidPrice      = errors.New("price must be greater than 0")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidDate       = errors.New("invalid date")

	ErrProviderNotFound    = errors.New("provider not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSlotsUnavailable    = errors.New("requested range is unavailable")
	ErrAdminRequired       = errors.New("admin mode is required")
)

const (
	MinRating = 1
	MaxRating = 5
)

// normalizeProviderInput обрезает пробелы и проверяет обязательные поля.
func normalizeProviderInput(in model.ProviderInput) (model.ProviderInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Specialty = strings.TrimSpace(in.Specialty)
	in.Description = strings.TrimSpace(in.Description)
	in.Horaires = strings.TrimSpace(in.Horaires)
	in.Experience = strings.TrimSpace(in.Experience)
	in.Img = strings.TrimSpace(in.Img)

	if in.Name == "" {
		return in, ErrNameRequired
	}
	if in.Specialty == "" {
		return in, ErrSpecialtyRequired
	}
	if !(in.Price > 0) {
		return in, ErrInvalidPrice
	}
	return in, nil
}

func validateRating(value float64) error {
	if !(value >= MinRating && value <= MaxRating) {
		return fmt.Errorf("%w: %v", ErrInvalidRating, value)
	}
	return nil
}

// validateBookingRange проверяет дату и что конец позже начала.
func validateBookingRange(date, start, end string) (hours int, err error) {
	if _, err := time.Parse(calendar.DateLayout, date); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return calendar.HoursBetween(start, end)
}
