package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "room_reservation/internal/adapters/http_server"
	"room_reservation/internal/adapters/observability"
	redisad "room_reservation/internal/adapters/redis"
	"room_reservation/internal/adapters/report"
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

	// journal
	var rec domain.OutcomeRecorder
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		defer db.Close()
		log.Info().Msg("journal database connection ok")
		rec = mysqlrepo.New(db)
	}

	// cache
	var cache domain.Cache = app.NopCache{}
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	// core
	store := memory.NewDefault()
	eng := app.NewEngine(store, app.NewBookingCoordinator(store, rec, cache),
		app.EngineConfig{Workers: cfg.Workers, PollInterval: cfg.PollInterval})
	if err := eng.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("starting workers failed")
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(store, cache, cfg.CacheTTL), S: eng})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// stop intake first, then let the workers drain what was accepted
	eng.Complete()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := eng.AwaitDrain(cfg.DrainTimeout); err != nil {
		log.Warn().Err(err).Msg("drain incomplete")
	}
	if err := eng.Shutdown(cfg.ShutdownGrace); err != nil {
		log.Warn().Err(err).Msg("workers were cancelled")
	}
	report.Log(log.Logger, eng.Stats())
}
