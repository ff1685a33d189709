package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/calendar"
	"github.com/Leganyst/reserveasy/internal/model"
	"github.com/Leganyst/reserveasy/internal/repository"
)

// HomeTopRated — сколько лучших провайдеров показывает главная страница.
const HomeTopRated = 6

// AllSpecialties в фильтре означает "любая специальность".
const AllSpecialties = "all"

// SearchFilter — фильтры каталога. Нулевое значение ничего не отсекает.
type SearchFilter struct {
	// Подстрока имени или специальности, без учёта регистра.
	Query     string
	Specialty string
	MinRating float64
	PriceMin  *float64
	PriceMax  *float64
	// Минимальный опыт в годах, извлекается из первого числа в Experience.
	MinExperienceYears *int
}

// CatalogService — чтение каталога провайдеров для витрины.
type CatalogService struct {
	providers repository.ProviderRepository
	log       *zap.Logger
}

func NewCatalogService(providers repository.ProviderRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{providers: providers, log: log}
}

// GetProvider возвращает провайдера или nil.
func (s *CatalogService) GetProvider(ctx context.Context, id int64) (*model.Provider, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get provider %d: %w", id, err)
	}
	return p, nil
}

// ListForDisplay — карточки всех провайдеров в порядке хранения.
func (s *CatalogService) ListForDisplay(ctx context.Context) ([]model.ProviderCard, error) {
	providers, err := s.providers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	cards := make([]model.ProviderCard, 0, len(providers))
	for i := range providers {
		cards = append(cards, providers[i].Card())
	}
	return cards, nil
}

// TopRated — n карточек с наибольшим рейтингом; при равенстве
// сохраняется порядок хранения. n <= 0 — все.
func (s *CatalogService) TopRated(ctx context.Context, n int) ([]model.ProviderCard, error) {
	cards, err := s.ListForDisplay(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Rating > cards[j].Rating
	})
	if n > 0 && len(cards) > n {
		cards = cards[:n]
	}
	return cards, nil
}

// Search фильтрует карточки и возвращает страницу page (с 1).
func (s *CatalogService) Search(ctx context.Context, f SearchFilter, page, pageSize int) (calendar.Page[model.ProviderCard], error) {
	cards, err := s.ListForDisplay(ctx)
	if err != nil {
		return calendar.Page[model.ProviderCard]{}, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	matched := make([]model.ProviderCard, 0, len(cards))
	for _, c := range cards {
		if f.matches(c, q) {
			matched = append(matched, c)
		}
	}
	return calendar.Paginate(matched, page, pageSize), nil
}

func (f SearchFilter) matches(c model.ProviderCard, q string) bool {
	if q != "" &&
		!strings.Contains(strings.ToLower(c.Name), q) &&
		!strings.Contains(strings.ToLower(c.Specialty), q) {
		return false
	}
	if f.Specialty != "" && f.Specialty != AllSpecialties && c.Specialty != f.Specialty {
		return false
	}
	if f.MinRating > 0 && c.Rating < f.MinRating {
		return false
	}
	if f.PriceMin != nil && c.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && c.Price > *f.PriceMax {
		return false
	}
	if f.MinExperienceYears != nil && ExperienceYears(c.Experience) < *f.MinExperienceYears {
		return false
	}
	return true
}

var firstNumber = regexp.MustCompile(`\d+`)

// ExperienceYears — первое число в строке опыта ("10 ans" → 10), иначе 0.
func ExperienceYears(experience string) int {
	m := firstNumber.FindString(experience)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// Specialties — различные непустые специальности по алфавиту.
func (s *CatalogService) Specialties(ctx context.Context) ([]string, error) {
	providers, err := s.providers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	seen := make(map[string]struct{}, len(providers))
	out := make([]string, 0, len(providers))
	for _, p := range providers {
		if p.Specialty == "" {
			continue
		}
		if _, ok := seen[p.Specialty]; ok {
			continue
		}
		seen[p.Specialty] = struct{}{}
		out = append(out, p.Specialty)
	}
	sort.Strings(out)
	return out, nil
}

// Quote — стоимость интервала: число часов × почасовая ставка.
func (s *CatalogService) Quote(ctx context.Context, providerID int64, start, end string) (float64, error) {
	hours, err := calendar.HoursBetween(start, end)
	if err != nil {
		return 0, err
	}
	p, err := s.GetProvider(ctx, providerID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, ErrProviderNotFound
	}
	return float64(hours) * p.Price, nil
}
