// Package validate implements the one-off validation subcommand.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/validate"
)

// Command returns the validate subcommand. It checks a sighting text,
// optional coordinate and optional zone claim against the configured
// boundaries and prints the verdict, without touching the store.
func Command(settings *conf.Settings) *cobra.Command {
	var lat, lon float64
	var zone string

	cmd := &cobra.Command{
		Use:   "validate [text]",
		Short: "Validate a sighting's location claims without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var point *geo.Point
			latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
			if latSet != lonSet {
				return fmt.Errorf("--lat and --lon must be supplied together")
			}
			if latSet {
				point = &geo.Point{Lat: lat, Lon: lon}
			}
			return runValidate(settings, args[0], point, zone)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Claimed latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Claimed longitude in decimal degrees")
	cmd.Flags().StringVar(&zone, "zone", "", "Claimed zone code")
	return cmd
}

func runValidate(settings *conf.Settings, text string, point *geo.Point, zone string) error {
	regions, err := geo.LoadGeoJSONFile(settings.Region.BoundaryPath)
	if err != nil {
		return fmt.Errorf("loading zone boundaries: %w", err)
	}
	atlas := geo.NewAtlas()
	if err := atlas.Load(regions, settings.Region.GridCell); err != nil {
		return fmt.Errorf("indexing zone boundaries: %w", err)
	}

	validator := validate.New(atlas, settings.Region.CanonicalCode, settings.Region.CanonicalName)
	verdict, err := validator.Validate(text, point, zone)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
