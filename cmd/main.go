package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/config"
	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/logger"
)

const storeOpenTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := pflag.NewFlagSet("reserveasy", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	configFile := global.String("config", "", "path to a yaml config file")
	envFile := global.String("env-file", ".env", "dotenv file loaded before the config")
	global.Usage = func() { printUsage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errMissingCommand
	}

	// 1. Переменные окружения из .env (файл необязателен).
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}

	// 2. Конфиг.
	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 3. Логгер.
	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 4. Хранилище.
	openCtx, cancel := context.WithTimeout(ctx, storeOpenTimeout)
	store, err := kv.Open(openCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()
	log.Debug("store opened", zap.String("driver", cfg.StoreDriver))

	// 5. Сервисы и начальное заполнение каталога.
	a := newApp(store, func() time.Time { return time.Now().In(loc) }, log, stdout)
	if _, err := a.admin.Initialize(ctx); err != nil {
		return err
	}

	return a.dispatch(ctx, global.Args())
}
