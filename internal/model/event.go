package model

import (
	"time"

	"github.com/google/uuid"
)

// Тип события аудита.
type EventType string

const (
	EventTypeProviderCreated  EventType = "provider_created"
	EventTypeProviderUpdated  EventType = "provider_updated"
	EventTypeProviderRemoved  EventType = "provider_removed"
	EventTypeBookingCreated   EventType = "booking_created"
	EventTypeBookingCancelled EventType = "booking_cancelled"
	EventTypeRatingAdded      EventType = "rating_added"
	EventTypeStorageReset     EventType = "storage_reset"
)

// Event — событие аудита.
type Event struct {
	ID        uuid.UUID `json:"id"`
	EventType EventType `json:"eventType"`
	CreatedAt time.Time `json:"createdAt"`

	ProviderID    *int64 `json:"providerId,omitempty"`
	ReservationID *int64 `json:"reservationId,omitempty"`

	Details string `json:"details,omitempty"`
}
