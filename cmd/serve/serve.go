// Package serve implements the HTTP API server subcommand.
package serve

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wildtrack/wildtrack-go/internal/api"
	"github.com/wildtrack/wildtrack-go/internal/app"
	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/errors"
	"github.com/wildtrack/wildtrack-go/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Command returns the serve subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the sighting HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}
}

func runServer(settings *conf.Settings) error {
	a, err := app.Bootstrap(settings)
	if err != nil {
		return err
	}
	defer a.Close()

	log := logging.ForService("serve")
	server := api.New(settings, a.Atlas, a.Validator, a.Pipeline, a.Store, a.Metrics)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("api server started", "port", settings.WebServer.Port,
		"regions", a.Atlas.RegionCount())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
