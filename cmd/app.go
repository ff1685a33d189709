package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/repository"
	"github.com/Leganyst/reserveasy/internal/service"
)

var (
	errMissingCommand = errors.New("missing command")
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("invalid arguments")
)

type app struct {
	catalog *service.CatalogService
	booking *service.BookingService
	admin   *service.AdminService
	events  repository.EventRepository
	now     repository.Clock
	out     io.Writer
}

func newApp(store kv.Store, now repository.Clock, log *zap.Logger, out io.Writer) *app {
	providers := repository.NewKVProviderRepository(store, now, log)
	reservations := repository.NewKVReservationRepository(store, now, log)
	events := repository.NewKVEventRepository(store, now, log)
	settings := repository.NewKVSettingsRepository(store, log)

	return &app{
		catalog: service.NewCatalogService(providers, log),
		booking: service.NewBookingService(store, providers, reservations, events, log),
		admin:   service.NewAdminService(store, providers, reservations, events, settings, now, log),
		events:  events,
		now:     now,
		out:     out,
	}
}

type command struct {
	name  string
	args  string
	short string
	run   func(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error
}

func commands() []command {
	return []command{
		{"providers", "", "list all providers", cmdProviders},
		{"show", "<provider-id>", "provider details and slots", cmdShow},
		{"search", "[flags]", "filter the catalog", cmdSearch},
		{"top", "[--n N]", "best rated providers", cmdTop},
		{"specialties", "", "distinct specialties", cmdSpecialties},
		{"quote", "--provider ID --start HH:00 --end HH:00", "price of a time range", cmdQuote},
		{"book", "--provider ID [--date YYYY-MM-DD] --start HH:00 --end HH:00", "reserve a time range", cmdBook},
		{"reservations", "", "list reservations", cmdReservations},
		{"cancel", "<reservation-id>", "cancel a reservation", cmdCancel},
		{"rate", "<provider-id> <1..5>", "rate a provider", cmdRate},
		{"admin", "[status|on|off|toggle]", "admin mode", cmdAdmin},
		{"add-provider", "--name N --specialty S --price P [flags]", "create a provider (admin)", cmdAddProvider},
		{"update-provider", "<provider-id> [flags]", "edit a provider (admin)", cmdUpdateProvider},
		{"remove-provider", "<provider-id>", "delete a provider and its reservations (admin)", cmdRemoveProvider},
		{"events", "[--limit N]", "audit log", cmdEvents},
		{"reset", "", "restore the default catalog", cmdReset},
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errMissingCommand
	}
	name, rest := args[0], args[1:]
	for _, c := range commands() {
		if c.name != name {
			continue
		}
		fs := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
		fs.SetOutput(a.out)
		fs.Usage = func() {
			fmt.Fprintf(a.out, "usage: reserveasy %s %s\n", c.name, c.args)
			fs.PrintDefaults()
		}
		err := c.run(ctx, a, fs, rest)
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	return fmt.Errorf("%w %q", errUnknownCommand, name)
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: reserveasy [--config FILE] [--env-file FILE] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-16s %s\n", c.name, c.short)
	}
	fmt.Fprintln(w)
	global.PrintDefaults()
}

// positionalID разбирает единственный позиционный аргумент-идентификатор.
func positionalID(fs *pflag.FlagSet, what string) (int64, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("%w: expected %s", errUsage, what)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", errUsage, what, fs.Arg(0))
	}
	return id, nil
}
