package model

// Slot — один бронируемый часовой интервал провайдера.
// Пара (Date, Time) уникальна в пределах одного провайдера.
type Slot struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:00
	Reserved bool   `json:"reserved"`
}
