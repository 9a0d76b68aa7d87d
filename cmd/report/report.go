// Package report implements the batch audit subcommand.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildtrack/wildtrack-go/internal/app"
	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
	"github.com/wildtrack/wildtrack-go/internal/validate"
)

// Command returns the report subcommand. It re-validates the most
// recently stored sightings against the current boundaries and rules
// and prints the tallies, so boundary updates can be audited without
// re-ingesting anything.
func Command(settings *conf.Settings) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Audit stored sightings against current boundaries and rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(settings, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 1000, "Maximum number of recent sightings to audit")
	return cmd
}

type reportOutput struct {
	Audit            validate.Report  `json:"audit"`
	ByRecommendation map[string]int64 `json:"by_recommendation"`
	ByZone           map[string]int64 `json:"by_zone"`
}

func runReport(settings *conf.Settings, limit int) error {
	a, err := app.Bootstrap(settings)
	if err != nil {
		return err
	}
	defer a.Close()

	rows, err := a.Store.Recent(limit)
	if err != nil {
		return err
	}
	candidates := make([]sighting.Candidate, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, *rows[i].Candidate())
	}

	byRecommendation, err := a.Store.CountByRecommendation()
	if err != nil {
		return err
	}
	byZone, err := a.Store.CountByZone()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(reportOutput{
		Audit:            a.Validator.Report(candidates),
		ByRecommendation: byRecommendation,
		ByZone:           byZone,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
