package seed

import (
	"testing"
	"time"

	"github.com/Leganyst/reserveasy/internal/calendar"
	"github.com/Leganyst/reserveasy/internal/model"
)

func TestDefaultProviders(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	providers := DefaultProviders(now)

	if len(providers) != 12 || Size() != 12 {
		t.Fatalf("expected 12 providers, got %d", len(providers))
	}

	specialties := map[string]bool{}
	for i, p := range providers {
		if p.ID != int64(i+1) {
			t.Fatalf("provider %d has id %d", i, p.ID)
		}
		if p.Name == "" || p.Specialty == "" || p.Price <= 0 {
			t.Fatalf("incomplete provider: %+v", p)
		}
		if p.Rating != model.AverageRating(p.Ratings) {
			t.Fatalf("%s: rating %v does not match history %v", p.Name, p.Rating, p.Ratings)
		}
		if len(p.Slots) != calendar.DaysToGenerate*len(calendar.SlotHours) {
			t.Fatalf("%s: unexpected slot count %d", p.Name, len(p.Slots))
		}
		if p.Slots[0].ID != 1 || p.Slots[0].Date != "2025-01-01" {
			t.Fatalf("%s: unexpected first slot %+v", p.Name, p.Slots[0])
		}
		specialties[p.Specialty] = true
	}
	if len(specialties) != 12 {
		t.Fatalf("expected 12 distinct specialties, got %d", len(specialties))
	}

	if providers[0].Rating != 4.7 || providers[3].Rating != 4.3 {
		t.Fatalf("unexpected derived ratings: %v, %v", providers[0].Rating, providers[3].Rating)
	}
	if providers[10].Img != "assets/images/11.jpg" {
		t.Fatalf("unexpected img: %s", providers[10].Img)
	}
}

func TestDefaultProviders_IndependentCopies(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	a := DefaultProviders(now)
	a[0].AddRating(1)
	a[0].Slots[0].Reserved = true

	b := DefaultProviders(now)
	if len(b[0].Ratings) != 3 || b[0].Slots[0].Reserved {
		t.Fatalf("catalog state leaked between calls: %+v", b[0])
	}
}
