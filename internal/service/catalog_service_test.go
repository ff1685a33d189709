package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Leganyst/reserveasy/internal/calendar"
	"github.com/Leganyst/reserveasy/internal/model"
)

func cardIDs(cards []model.ProviderCard) []int64 {
	ids := make([]int64, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCatalogService_ListForDisplayDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.providers.Add(ctx, model.ProviderInput{Name: "Sans image", Specialty: "x", Price: 10}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	cards, err := env.catalog.ListForDisplay(ctx)
	if err != nil {
		t.Fatalf("ListForDisplay: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Experience != model.DefaultExperience || cards[0].Img != model.DefaultImg {
		t.Fatalf("display defaults not applied: %+v", cards[0])
	}
}

func TestCatalogService_TopRated(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	top, err := env.catalog.TopRated(ctx, HomeTopRated)
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	// 4.8: 3, 5, 9; 4.7: 1, 7, 11 — равные рейтинги в порядке хранения.
	if want := []int64{3, 5, 9, 1, 7, 11}; !reflect.DeepEqual(cardIDs(top), want) {
		t.Fatalf("TopRated ids = %v, want %v", cardIDs(top), want)
	}

	all, err := env.catalog.TopRated(ctx, 0)
	if err != nil {
		t.Fatalf("TopRated(0): %v", err)
	}
	if len(all) != 12 {
		t.Fatalf("TopRated(0) must return all providers, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Rating > all[i-1].Rating {
			t.Fatalf("not sorted by rating at %d: %v > %v", i, all[i].Rating, all[i-1].Rating)
		}
	}
}

func TestCatalogService_Search(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	priceMax := 200.0
	priceMin := 300.0
	minYears := 10

	cases := []struct {
		name   string
		filter SearchFilter
		want   []int64
	}{
		{"query by name", SearchFilter{Query: "  PRO "}, []int64{3, 8}},
		{"query by specialty", SearchFilter{Query: "plomberie"}, []int64{6}},
		{"specialty", SearchFilter{Specialty: "Musique"}, []int64{7}},
		{"all specialties", SearchFilter{Specialty: AllSpecialties, MinRating: 4.8}, []int64{3, 5, 9}},
		{"price max", SearchFilter{PriceMax: &priceMax}, []int64{3, 6, 7, 9}},
		{"price min", SearchFilter{PriceMin: &priceMin}, []int64{2, 4, 5, 11, 12}},
		{"experience", SearchFilter{MinExperienceYears: &minYears}, []int64{1, 4, 6, 10, 12}},
		{"no match", SearchFilter{Query: "boulangerie"}, []int64{}},
	}
	for _, c := range cases {
		page, err := env.catalog.Search(ctx, c.filter, 1, 20)
		if err != nil {
			t.Fatalf("%s: Search: %v", c.name, err)
		}
		if got := cardIDs(page.Items); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: ids = %v, want %v", c.name, got, c.want)
		}
		if page.Total != len(c.want) {
			t.Fatalf("%s: total = %d, want %d", c.name, page.Total, len(c.want))
		}
	}
}

func TestCatalogService_SearchPagination(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	page, err := env.catalog.Search(ctx, SearchFilter{}, 2, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []int64{6, 7, 8, 9, 10}; !reflect.DeepEqual(cardIDs(page.Items), want) {
		t.Fatalf("page 2 ids = %v, want %v", cardIDs(page.Items), want)
	}
	if !page.HasNext || !page.HasPrev || page.Total != 12 {
		t.Fatalf("unexpected page metadata: %+v", page)
	}

	last, _ := env.catalog.Search(ctx, SearchFilter{}, 3, 5)
	if len(last.Items) != 2 || last.HasNext {
		t.Fatalf("unexpected last page: %+v", last)
	}

	def, _ := env.catalog.Search(ctx, SearchFilter{}, 0, 0)
	if def.Page != 1 || def.PageSize != calendar.DefaultPageSize || len(def.Items) != calendar.DefaultPageSize {
		t.Fatalf("defaults not applied: %+v", def)
	}
}

func TestExperienceYears(t *testing.T) {
	cases := map[string]int{
		"10 ans":           10,
		"Coachs certifiés": 0,
		"":                 0,
		"plus de 3 ans":    3,
	}
	for in, want := range cases {
		if got := ExperienceYears(in); got != want {
			t.Fatalf("ExperienceYears(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestCatalogService_Specialties(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	// Повтор специальности не даёт дубликата.
	if _, err := env.providers.Add(ctx, model.ProviderInput{Name: "Autre salon", Specialty: "Salon de coiffure", Price: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := env.catalog.Specialties(ctx)
	if err != nil {
		t.Fatalf("Specialties: %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("expected 12 specialties, got %d: %v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("specialties not sorted: %v", got)
		}
	}
}

func TestCatalogService_Quote(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	total, err := env.catalog.Quote(ctx, 1, "09:00", "11:00")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if total != 500 {
		t.Fatalf("quote = %v, want 500", total)
	}

	if _, err := env.catalog.Quote(ctx, 1, "11:00", "09:00"); !errors.Is(err, calendar.ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
	if _, err := env.catalog.Quote(ctx, 99, "09:00", "10:00"); !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}

	missing, err := env.catalog.GetProvider(ctx, 99)
	if err != nil || missing != nil {
		t.Fatalf("GetProvider missing: %+v %v", missing, err)
	}
}
