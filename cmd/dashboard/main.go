package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/config"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/dashboard"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/dashboard/api"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	s, err := dashboard.New(api.New(config.APIURL()), config.Progress())
	if err != nil {
		log.Fatal().Err(err).Msg("dashboard init failed")
	}

	srv := &http.Server{
		Addr:              config.DashboardAddr(),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", srv.Addr).Str("api", config.APIURL()).Msg("dashboard listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exit")
	}
}
