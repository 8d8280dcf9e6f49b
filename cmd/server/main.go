package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	electionhandler "univote/internal/election/handler"
	electionservice "univote/internal/election/service"
	electionstore "univote/internal/election/store"
	"univote/internal/platform/config"
	"univote/internal/platform/httpserver"
	"univote/internal/platform/logger"
	"univote/internal/platform/metrics"
	"univote/internal/platform/postgres"
	"univote/internal/platform/redis"
	"univote/internal/storage"
	httptransport "univote/internal/transport/http"
	voterhandler "univote/internal/voter/handler"
	voterservice "univote/internal/voter/service"
	voterstore "univote/internal/voter/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	voterCol, electionCol, cleanup, err := buildCollections(ctx, cfg)
	if err != nil {
		log.Error("storage setup failed", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	m := metrics.New()

	voterSvc := voterservice.New(voterstore.NewDocuments(voterCol),
		voterservice.WithLogger(log),
		voterservice.WithMetrics(m),
	)
	electionSvc := electionservice.New(electionstore.NewDocuments(electionCol), voterSvc,
		electionservice.WithLogger(log),
		electionservice.WithMetrics(m),
	)

	router := httptransport.NewRouter(log, m, cfg.RequestTimeout,
		voterhandler.New(voterSvc, log),
		electionhandler.New(electionSvc, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting univote", "addr", cfg.Addr, "backend", cfg.Backend())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}

// buildCollections selects the document-store backend from configuration:
// postgres when configured, then redis, falling back to in-memory.
func buildCollections(ctx context.Context, cfg config.Server) (voters, elections storage.Collection, cleanup func(), err error) {
	cleanup = func() {}

	switch cfg.Backend() {
	case config.BackendPostgres:
		db, err := postgres.Open(cfg.PostgresURL)
		if err != nil {
			return nil, nil, nil, err
		}
		voterCol := storage.NewPostgres(db, storage.VotersCollection)
		electionCol := storage.NewPostgres(db, storage.ElectionsCollection)
		if err := voterCol.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		if err := electionCol.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return voterCol, electionCol, func() { db.Close() }, nil

	case config.BackendRedis:
		client, err := redis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return storage.NewRedis(client.Client, storage.VotersCollection),
			storage.NewRedis(client.Client, storage.ElectionsCollection),
			func() { _ = client.Close() }, nil

	default:
		return storage.NewMemory(), storage.NewMemory(), cleanup, nil
	}
}
