package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"etfpanel"
	"etfpanel/app"
	"etfpanel/internal/telemetry"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the category count job",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides app.port)")
}

func runServe(cmd *cobra.Command, args []string) error {

	conf, stg, cache, closeAll, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeAll()

	if cache.Enabled() {
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		if err := cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, catalog reads go to mysql")
		}
		cancel()
	}

	shutdownTracing, err := telemetry.Setup(cmd.Context(), conf.TracingConfig())
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	agg, err := newAggregator(conf, stg, cache)
	if err != nil {
		return err
	}

	expiry, err := conf.JwtExpiry()
	if err != nil {
		return err
	}

	refresher := etfpanel.NewRefresher(agg, conf.Jobs.CategoryCount)
	if err := refresher.Run(); err != nil {
		return fmt.Errorf("refresher 시작 오류. %w", err)
	}
	defer refresher.Stop()

	server := app.New(app.Config{
		JwtKey:       conf.App.JwtKey,
		JwtExpiry:    expiry,
		AllowOrigins: conf.App.AllowOrigins,
		Production:   conf.Production(),
	}, agg, stg)

	port := conf.App.Port
	if servePort != 0 {
		port = servePort
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", port).Str("env", conf.Env).Msg("etfpanel listening")
		errCh <- server.Listen(fmt.Sprintf(":%d", port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return server.ShutdownWithTimeout(shutdownTimeout)
}
