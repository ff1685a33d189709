package model

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation — запись о бронировании. ProviderName копируется в момент
// брони и не синхронизируется с последующими правками провайдера.
type Reservation struct {
	ID           int64             `json:"id"`
	ProviderID   int64             `json:"providerId"`
	ProviderName string            `json:"providerName"`
	Date         string            `json:"date"`
	Start        string            `json:"start"`
	End          string            `json:"end"`
	Status       ReservationStatus `json:"status"`
}
