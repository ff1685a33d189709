// Package seed — стартовый каталог провайдеров.
package seed

import (
	"fmt"
	"time"

	"github.com/Leganyst/reserveasy/internal/calendar"
	"github.com/Leganyst/reserveasy/internal/model"
)

type entry struct {
	name        string
	specialty   string
	price       float64
	description string
	horaires    string
	experience  string
	ratings     []float64
}

var catalog = []entry{
	{"Coiffure Élégance", "Salon de coiffure", 250, "Salon moderne proposant coupe, coloration et soins.", "Lun-Ven 09:00 - 18:00", "10 ans", []float64{5, 4, 5}},
	{"Dr. Santé Plus", "Médecin Généraliste", 400, "Cabinet médical – consultations générales.", "Lun-Sam 08:00 - 16:00", "5 ans", []float64{5, 4, 4, 5}},
	{"Fitness Pro", "Salle de Sport", 150, "Salle de sport équipée avec coachs certifiés.", "Lun-Dim 06:00 - 22:00", "Coachs certifiés", []float64{5, 5, 5, 4}},
	{"Auto-Service Rapide", "Mécanique", 300, "Entretien et réparation rapide pour véhicules.", "Lun-Ven 08:00 - 18:00", "15 ans", []float64{4, 4, 5}},
	{"Beauté & Spa", "Esthétique", 320, "Soins du visage et massages relaxants.", "Lun-Sam 09:00 - 19:00", "8 ans", []float64{5, 4, 5, 5}},
	{"Plomberie Express", "Plomberie", 200, "Interventions plomberie urgentes.", "24/7", "12 ans", []float64{4, 4}},
	{"Cours de Piano", "Musique", 180, "Leçons de piano pour tous âges.", "Après-midi et soir", "7 ans", []float64{5, 4, 5}},
	{"Jardinage Pro", "Jardinage", 220, "Entretien de jardins et espaces verts.", "Lun-Sam 07:00 - 15:00", "9 ans", []float64{4, 4, 4}},
	{"Yoga Studio", "Bien-être", 120, "Cours collectifs et privés de yoga.", "Matin et soir", "6 ans", []float64{5, 5, 4, 5}},
	{"Informatique Plus", "Informatique", 280, "Assistance et dépannage informatique.", "Lun-Ven 09:00 - 17:00", "10 ans", []float64{4, 4, 5}},
	{"Photographe Studio", "Photographie", 500, "Shooting portrait et événementiel.", "Sur rendez-vous", "6 ans", []float64{5, 4, 5}},
	{"Coaching Carrière", "Conseil", 350, "Coaching professionnel et CV.", "Sur rendez-vous", "11 ans", []float64{4, 4}},
}

// Size — число провайдеров в стартовом каталоге.
func Size() int { return len(catalog) }

// DefaultProviders строит каталог с ID от 1 и свежими слотами на неделю от now.
// Rating вычисляется из истории оценок тем же правилом, что и AddRating.
func DefaultProviders(now time.Time) []model.Provider {
	providers := make([]model.Provider, 0, len(catalog))
	for i, e := range catalog {
		ratings := append([]float64(nil), e.ratings...)
		providers = append(providers, model.Provider{
			ID:          int64(i + 1),
			Name:        e.name,
			Specialty:   e.specialty,
			Price:       e.price,
			Rating:      model.AverageRating(ratings),
			Ratings:     ratings,
			Description: e.description,
			Horaires:    e.horaires,
			Experience:  e.experience,
			Img:         fmt.Sprintf("assets/images/%d.jpg", i+1),
			Slots:       calendar.GenerateSlots(now, 1),
		})
	}
	return providers
}
