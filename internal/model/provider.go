package model

import (
	"math"
	"strings"
)

// Значения по умолчанию для необязательных полей провайдера.
const (
	DefaultDescription = "Pas de description disponible."
	DefaultHoraires    = "Sur rendez-vous"
	DefaultImg         = "assets/images/img1.jpg"
	DefaultExperience  = "Expérience non spécifiée"
)

// Provider — исполнитель услуг (салон, врач, мастер и т.п.).
type Provider struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	// Средняя оценка, кэш над Ratings (см. RecomputeRating).
	Rating float64 `json:"rating"`
	// Почасовая ставка.
	Price float64 `json:"price"`

	Description string `json:"description,omitempty"`
	Horaires    string `json:"horaires,omitempty"`
	Img         string `json:"img,omitempty"`
	Experience  string `json:"experience,omitempty"`

	Slots   []Slot    `json:"slots"`
	Ratings []float64 `json:"ratings"`
}

// ProviderInput — поля, которые задаёт вызывающий при создании провайдера.
type ProviderInput struct {
	Name        string
	Specialty   string
	Price       float64
	Description string
	Horaires    string
	Experience  string
	Img         string
}

// ApplyInput переносит редактируемые поля; пустые заменяются значениями
// по умолчанию. Id, слоты и оценки не трогаются.
func (p *Provider) ApplyInput(in ProviderInput) {
	p.Name = in.Name
	p.Specialty = in.Specialty
	p.Price = in.Price
	p.Description = orDefault(in.Description, DefaultDescription)
	p.Horaires = orDefault(in.Horaires, DefaultHoraires)
	p.Experience = in.Experience
	p.Img = orDefault(in.Img, DefaultImg)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// AverageRating — среднее по оценкам, округлённое до одного знака
// (половина округляется вверх). Для пустого списка — 0.
func AverageRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	avg := sum / float64(len(ratings))
	return math.Floor(avg*10+0.5) / 10
}

// AddRating добавляет оценку и пересчитывает Rating.
func (p *Provider) AddRating(value float64) float64 {
	p.Ratings = append(p.Ratings, value)
	p.Rating = AverageRating(p.Ratings)
	return p.Rating
}

// FindSlot возвращает слот на дату и час или nil.
func (p *Provider) FindSlot(date, hourLabel string) *Slot {
	for i := range p.Slots {
		if p.Slots[i].Date == date && p.Slots[i].Time == hourLabel {
			return &p.Slots[i]
		}
	}
	return nil
}

// AvailableDates — даты слотов без повторов, в порядке первого появления.
func (p *Provider) AvailableDates() []string {
	seen := make(map[string]struct{}, len(p.Slots))
	dates := make([]string, 0)
	for _, s := range p.Slots {
		if _, ok := seen[s.Date]; ok {
			continue
		}
		seen[s.Date] = struct{}{}
		dates = append(dates, s.Date)
	}
	return dates
}

// SlotsForDate — слоты на дату в исходном порядке.
func (p *Provider) SlotsForDate(date string) []Slot {
	out := make([]Slot, 0)
	for _, s := range p.Slots {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

// ProviderCard — проекция провайдера для карточки в каталоге.
type ProviderCard struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Specialty  string  `json:"specialty"`
	Rating     float64 `json:"rating"`
	Experience string  `json:"experience"`
	Img        string  `json:"img"`
	Price      float64 `json:"price"`
}

// Card подставляет значения по умолчанию для пустых Experience и Img.
func (p *Provider) Card() ProviderCard {
	c := ProviderCard{
		ID:         p.ID,
		Name:       p.Name,
		Specialty:  p.Specialty,
		Rating:     p.Rating,
		Experience: p.Experience,
		Img:        p.Img,
		Price:      p.Price,
	}
	if c.Experience == "" {
		c.Experience = DefaultExperience
	}
	if c.Img == "" {
		c.Img = DefaultImg
	}
	return c
}

// Stars — рейтинг звёздами из пяти: "★★★★½" для 4.5, "★★★☆☆" для 3.
func Stars(rating float64) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	full := int(math.Floor(rating))
	half := rating-float64(full) >= 0.5
	empty := 5 - full
	if half {
		empty--
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if half {
		b.WriteString("½")
	}
	b.WriteString(strings.Repeat("☆", empty))
	return b.String()
}
