// Package ingest implements the one-shot ingestion subcommand.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wildtrack/wildtrack-go/internal/app"
	"github.com/wildtrack/wildtrack-go/internal/conf"
)

// Command returns the ingest subcommand. It polls every configured
// source once, runs the extracted candidates through the pipeline and
// prints a run summary.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Poll configured sources once and ingest new sightings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(settings)
		},
	}
}

func runIngest(settings *conf.Settings) error {
	a, err := app.Bootstrap(settings)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := a.BuildRunner().Run(ctx)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
