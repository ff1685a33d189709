package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/Leganyst/reserveasy/internal/calendar"
	"github.com/Leganyst/reserveasy/internal/model"
	"github.com/Leganyst/reserveasy/internal/service"
)

// ===== Каталог =====

func cmdProviders(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	cards, err := a.catalog.ListForDisplay(ctx)
	if err != nil {
		return err
	}
	a.printCards(cards)
	return nil
}

func cmdTop(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	n := fs.Int("n", service.HomeTopRated, "how many providers to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cards, err := a.catalog.TopRated(ctx, *n)
	if err != nil {
		return err
	}
	a.printCards(cards)
	return nil
}

func cmdSearch(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	query := fs.StringP("query", "q", "", "substring of the name or specialty")
	specialty := fs.StringP("specialty", "s", "", "exact specialty (\"all\" for any)")
	minRating := fs.Float64("min-rating", 0, "minimum rating")
	priceMin := fs.Float64("price-min", 0, "minimum hourly price")
	priceMax := fs.Float64("price-max", 0, "maximum hourly price")
	minYears := fs.Int("min-experience", 0, "minimum years of experience")
	page := fs.Int("page", 1, "page number, from 1")
	pageSize := fs.Int("page-size", calendar.DefaultPageSize, "providers per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := service.SearchFilter{Query: *query, Specialty: *specialty, MinRating: *minRating}
	if fs.Changed("price-min") {
		filter.PriceMin = priceMin
	}
	if fs.Changed("price-max") {
		filter.PriceMax = priceMax
	}
	if fs.Changed("min-experience") {
		filter.MinExperienceYears = minYears
	}

	res, err := a.catalog.Search(ctx, filter, *page, *pageSize)
	if err != nil {
		return err
	}
	a.printCards(res.Items)
	fmt.Fprintf(a.out, "page %d, %d of %d providers\n", res.Page, len(res.Items), res.Total)
	return nil
}

func cmdSpecialties(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	list, err := a.catalog.Specialties(ctx)
	if err != nil {
		return err
	}
	for _, s := range list {
		fmt.Fprintln(a.out, s)
	}
	return nil
}

func cmdShow(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := positionalID(fs, "provider id")
	if err != nil {
		return err
	}
	p, err := a.catalog.GetProvider(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %d", service.ErrProviderNotFound, id)
	}

	card := p.Card()
	fmt.Fprintf(a.out, "#%d %s (%s)\n", p.ID, p.Name, p.Specialty)
	fmt.Fprintf(a.out, "rating:      %s %.1f (%d ratings)\n", model.Stars(p.Rating), p.Rating, len(p.Ratings))
	fmt.Fprintf(a.out, "price:       %.2f / hour\n", p.Price)
	fmt.Fprintf(a.out, "experience:  %s\n", card.Experience)
	if p.Horaires != "" {
		fmt.Fprintf(a.out, "hours:       %s\n", p.Horaires)
	}
	if p.Description != "" {
		fmt.Fprintf(a.out, "description: %s\n", p.Description)
	}

	fmt.Fprintln(a.out, "availability ([x] reserved):")
	for _, date := range p.AvailableDates() {
		labels := make([]string, 0, len(calendar.SlotHours))
		for _, s := range p.SlotsForDate(date) {
			if s.Reserved {
				labels = append(labels, "[x]"+s.Time)
			} else {
				labels = append(labels, s.Time)
			}
		}
		fmt.Fprintf(a.out, "  %s  %s\n", date, strings.Join(labels, " "))
	}
	return nil
}

func cmdQuote(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	providerID := fs.Int64("provider", 0, "provider id")
	start := fs.String("start", "", "start hour, HH:00")
	end := fs.String("end", "", "end hour, HH:00 (exclusive)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	total, err := a.catalog.Quote(ctx, *providerID, *start, *end)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s–%s: %.2f\n", *start, *end, total)
	return nil
}

// ===== Брони и оценки =====

func cmdBook(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	providerID := fs.Int64("provider", 0, "provider id")
	date := fs.String("date", "", "date, YYYY-MM-DD (default today)")
	start := fs.String("start", "", "start hour, HH:00")
	end := fs.String("end", "", "end hour, HH:00 (exclusive)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *date == "" {
		*date = calendar.Today(a.now())
	}

	total, err := a.catalog.Quote(ctx, *providerID, *start, *end)
	if err != nil && !errors.Is(err, service.ErrProviderNotFound) {
		return err
	}
	res, err := a.booking.Book(ctx, *providerID, *date, *start, *end)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "reservation #%d confirmed: %s, %s, total %.2f\n",
		res.ID, res.ProviderName, calendar.FormatRangeForUser(res.Date, res.Start, res.End), total)
	return nil
}

func cmdReservations(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	list, err := a.booking.Reservations(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "no reservations")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tWHEN\tSTATUS")
	for _, r := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.ProviderName, calendar.FormatRangeForUser(r.Date, r.Start, r.End), r.Status)
	}
	return w.Flush()
}

func cmdCancel(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := positionalID(fs, "reservation id")
	if err != nil {
		return err
	}
	res, err := a.booking.Cancel(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "reservation #%d %s\n", res.ID, res.Status)
	return nil
}

func cmdRate(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: expected <provider-id> <1..5>", errUsage)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad provider id %q", errUsage, fs.Arg(0))
	}
	value, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("%w: bad rating %q", errUsage, fs.Arg(1))
	}
	avg, err := a.booking.Rate(ctx, id, value)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "new rating: %s %.1f\n", model.Stars(avg), avg)
	return nil
}

// ===== Администрирование =====

func cmdAdmin(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	action := "status"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}

	var (
		on  bool
		err error
	)
	switch action {
	case "status":
		on, err = a.admin.IsAdmin(ctx)
	case "on", "off":
		on = action == "on"
		err = a.admin.SetAdmin(ctx, on)
	case "toggle":
		on, err = a.admin.Toggle(ctx)
	default:
		return fmt.Errorf("%w: unknown admin action %q", errUsage, action)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "admin mode: %s\n", onOff(on))
	return nil
}

// providerFlags — общие флаги создания и правки провайдера.
type providerFlags struct {
	name, specialty, description, horaires, experience, img *string
	price                                                   *float64
}

func bindProviderFlags(fs *pflag.FlagSet) providerFlags {
	return providerFlags{
		name:        fs.String("name", "", "provider name"),
		specialty:   fs.String("specialty", "", "specialty"),
		price:       fs.Float64("price", 0, "hourly price"),
		description: fs.String("description", "", "description"),
		horaires:    fs.String("horaires", "", "opening hours"),
		experience:  fs.String("experience", "", "experience, e.g. \"5 ans\""),
		img:         fs.String("img", "", "image path"),
	}
}

// apply накладывает явно заданные флаги на in.
func (f providerFlags) apply(fs *pflag.FlagSet, in model.ProviderInput) model.ProviderInput {
	if fs.Changed("name") {
		in.Name = *f.name
	}
	if fs.Changed("specialty") {
		in.Specialty = *f.specialty
	}
	if fs.Changed("price") {
		in.Price = *f.price
	}
	if fs.Changed("description") {
		in.Description = *f.description
	}
	if fs.Changed("horaires") {
		in.Horaires = *f.horaires
	}
	if fs.Changed("experience") {
		in.Experience = *f.experience
	}
	if fs.Changed("img") {
		in.Img = *f.img
	}
	return in
}

func cmdAddProvider(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	flags := bindProviderFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := a.admin.AddProvider(ctx, flags.apply(fs, model.ProviderInput{}))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "provider #%d created: %s\n", p.ID, p.Name)
	return nil
}

func cmdUpdateProvider(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	flags := bindProviderFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := positionalID(fs, "provider id")
	if err != nil {
		return err
	}
	current, err := a.catalog.GetProvider(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: %d", service.ErrProviderNotFound, id)
	}

	in := flags.apply(fs, model.ProviderInput{
		Name:        current.Name,
		Specialty:   current.Specialty,
		Price:       current.Price,
		Description: current.Description,
		Horaires:    current.Horaires,
		Experience:  current.Experience,
		Img:         current.Img,
	})
	p, err := a.admin.UpdateProvider(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "provider #%d updated: %s\n", p.ID, p.Name)
	return nil
}

func cmdRemoveProvider(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := positionalID(fs, "provider id")
	if err != nil {
		return err
	}
	if err := a.admin.RemoveProvider(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "provider #%d removed\n", id)
	return nil
}

func cmdEvents(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	limit := fs.Int("limit", 20, "how many recent events to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	events, err := a.events.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tPROVIDER\tRESERVATION\tDETAILS")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.In(a.now().Location()).Format("2006-01-02 15:04:05"),
			e.EventType, optionalID(e.ProviderID), optionalID(e.ReservationID), e.Details)
	}
	return w.Flush()
}

func cmdReset(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.admin.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "storage reset to the default catalog")
	return nil
}

// ===== Вывод =====

func (a *app) printCards(cards []model.ProviderCard) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSPECIALTY\tRATING\tPRICE\tEXPERIENCE")
	for _, c := range cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.2f\t%s\n", c.ID, c.Name, c.Specialty, c.Rating, c.Price, c.Experience)
	}
	_ = w.Flush()
}

func optionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
