package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"promptart/internal/app"
	"promptart/internal/http/handlers"
	httpapi "promptart/internal/http/httpapi"
	"promptart/internal/infra"
)

func main() {
	// .env is optional; backend/.env matches the layout the frontend repo ships.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("backend/.env")

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.Development(), cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Error().Err(err).Msg("close services")
		}
	}()

	// Warm-up runs beside the listener; early requests share its in-flight work.
	if cfg.WarmupOnStart {
		go func() {
			if err := services.Samples.EnsureWarm(ctx); err != nil {
				logger.Warn().Err(err).Msg("startup warm-up interrupted")
			}
		}()
	}

	handlerApp := handlers.NewApp(services.Catalog, services.Samples, services.Images, services.History, logger)
	router := httpapi.NewRouter(handlerApp, logger, cfg.CORSAllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
