package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"address-api/internal/config"
	"address-api/internal/handler"
	"address-api/internal/logger"
	"address-api/internal/observability"
	"address-api/internal/repository"
	"address-api/internal/server"
	"address-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

//	@title			Address API
//	@version		1.0
//	@description	CRUD and proximity search for geolocated address records.
//	@BasePath		/

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	l := logger.New(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store
	store, err := repository.Open(ctx, cfg, l)
	if err != nil {
		l.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("cannot open address store")
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	instrumented := repository.NewInstrumentedRepository(store, metrics)

	// Initialize layers
	addressService := service.NewAddressService(instrumented)
	addressHandler := handler.NewAddressHandler(addressService)

	srv := server.NewServer(server.Options{
		Addr:      cfg.ServerAddress,
		Addresses: addressHandler,
		Ready:     instrumented,
		Metrics:   metrics,
		Gatherer:  prometheus.DefaultGatherer,
		Logger:    l,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	failed := false
	select {
	case <-ctx.Done():
		l.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			l.Error().Err(err).Msg("http server failed")
			failed = true
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("http server shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("closing address store")
	}

	l.Info().Msg("stopped")
	if failed {
		os.Exit(1)
	}
}
