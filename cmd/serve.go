package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"geosleuth/cronjobs"
	"geosleuth/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP agents",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := buildAgents(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	prober := cronjobs.NewProber(cfg.GeocoderProvider, a.probe)
	scheduler, err := cronjobs.InitCronJobs(ctx, cfg.HealthCheckSchedule, prober, log)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	router := routes.SetupRouter(routes.Deps{
		NER:          a.ner,
		Exif:         a.exif,
		Geocoder:     a.geocoder,
		GeocodeLimit: cfg.GeocodeLimit,
		Health:       prober,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*cfg.ImageFetchTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server",
			slog.String("address", srv.Addr),
			slog.String("ner", cfg.NERProvider),
			slog.String("geocoder", cfg.GeocoderProvider),
			slog.String("version", Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, draining connections", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("HTTP server stopped")
	return nil
}
