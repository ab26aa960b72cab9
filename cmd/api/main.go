package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"server/internal/credentials"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/jobstore"
	"server/internal/kling"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	jobs, fileStore, err := newJobStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open job map store")
	}
	if fileStore != nil {
		pruner := jobstore.StartPruner(fileStore, cfg.JobRetention, &logger)
		defer pruner.Stop()
	}

	keys, err := credentials.NewStore(cfg.KeyStorePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open key store")
	}

	registry := kling.NewRegistry(cfg.KlingBaseURL)
	fetcher := kling.NewFetcher(kling.FetcherOptions{
		Timeout:     cfg.UpstreamTimeout,
		MaxAttempts: cfg.UpstreamAttempts,
		Logger:      &logger,
	})
	client := kling.NewClient(fetcher, &logger)
	resolver := kling.NewResolver(registry, fetcher, &logger)

	app := handlers.NewApp(&logger, registry, client, resolver, jobs, keys)
	router := httpapi.NewRouter(app, logger, cfg.CORSAllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("relay listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// newJobStore picks the configured job-map backend. The file store is also
// returned separately so the pruner can be attached to it.
func newJobStore(cfg *infra.Config) (jobstore.Store, *jobstore.FileStore, error) {
	switch cfg.JobStore {
	case "memory":
		return jobstore.NewMemoryStore(), nil, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		return jobstore.NewRedisStore(rdb, cfg.JobRetention), nil, nil
	default:
		fs, err := jobstore.NewFileStore(cfg.JobStorePath)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs, nil
	}
}
