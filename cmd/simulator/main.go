package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"room_reservation/internal/adapters/observability"
	redisad "room_reservation/internal/adapters/redis"
	"room_reservation/internal/adapters/report"
	"room_reservation/internal/adapters/requests"
	"room_reservation/internal/app"
	"room_reservation/internal/domain"
	"room_reservation/internal/shared"
	"room_reservation/internal/storage/memory"
	mysqlrepo "room_reservation/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve(cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reqs, err := loadRequests(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("reading booking requests failed")
	}
	log.Info().
		Int("requests", len(reqs)).
		Int("workers", cfg.Workers).
		Dur("arrival_interval", cfg.ArrivalInterval).
		Msg("simulator starting")

	rec, closeJournal := openJournal(cfg.MySQLDSN)
	defer closeJournal()

	store := memory.NewDefault()
	coord := app.NewBookingCoordinator(store, rec, openCache(ctx, cfg))
	eng := app.NewEngine(store, coord, app.EngineConfig{Workers: cfg.Workers, PollInterval: cfg.PollInterval})

	// workers are stopped through Shutdown, not through ctx
	if err := eng.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("starting workers failed")
	}

	go func() {
		if _, err := app.NewProducer(eng, cfg.ArrivalInterval).Run(ctx, reqs); err != nil {
			log.Warn().Err(err).Msg("producer did not submit every request")
		}
	}()

	drained := make(chan error, 1)
	go func() { drained <- eng.AwaitDrain(cfg.DrainTimeout) }()
	select {
	case err := <-drained:
		if errors.Is(err, domain.ErrDrainTimeout) {
			log.Warn().Int("pending", eng.Pending()).Msg("timeout waiting for requests to complete")
		}
	case <-ctx.Done():
		log.Warn().Msg("interrupted; shutting down")
	}

	report.Log(log.Logger, eng.Stats())

	if err := eng.Shutdown(cfg.ShutdownGrace); errors.Is(err, domain.ErrShutdownTimeout) {
		log.Warn().Dur("grace", cfg.ShutdownGrace).Msg("workers were cancelled")
	}
}

func loadRequests(ctx context.Context, cfg shared.Config) ([]domain.BookingRequest, error) {
	if cfg.RequestsURL != "" {
		var urls []string
		for _, u := range strings.Split(cfg.RequestsURL, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		reqs, bad, err := requests.NewClient(cfg.FeedKey, 5).FetchAll(ctx, urls, 4)
		if len(bad) > 0 {
			log.Warn().Int("skipped", len(bad)).Msg("malformed feed records skipped")
		}
		return reqs, err
	}
	reqs, _, err := requests.DecodeFile(cfg.RequestsFile)
	return reqs, err
}

// openJournal returns a nil recorder when no DSN is configured.
func openJournal(dsn string) (domain.OutcomeRecorder, func()) {
	if dsn == "" {
		return nil, func() {}
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("journal database connection ok")
	return mysqlrepo.New(db), func() { _ = db.Close() }
}

func openCache(ctx context.Context, cfg shared.Config) domain.Cache {
	if cfg.RedisAddr == "" {
		return app.NopCache{}
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := c.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; stats cache disabled")
		return app.NopCache{}
	}
	return c
}
