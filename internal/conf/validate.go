package conf

import (
	"fmt"
	"strconv"
)

// ValidateSettings checks the loaded settings for values the application
// cannot start with. Configuration problems abort startup rather than
// surfacing later as confusing runtime errors.
func ValidateSettings(settings *Settings) error {
	if settings.Region.CanonicalCode == "" {
		return fmt.Errorf("region.canonicalcode must not be empty")
	}
	if settings.Region.CanonicalName == "" {
		return fmt.Errorf("region.canonicalname must not be empty")
	}
	if settings.Region.GridCell <= 0 || settings.Region.GridCell > 10 {
		return fmt.Errorf("region.gridcell must be in (0, 10], got %v", settings.Region.GridCell)
	}
	if settings.Ingest.Workers < 1 {
		return fmt.Errorf("ingest.workers must be at least 1, got %d", settings.Ingest.Workers)
	}
	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		return fmt.Errorf("output.sqlite and output.mysql are mutually exclusive")
	}
	if settings.Output.MySQL.Enabled {
		if settings.Output.MySQL.Database == "" || settings.Output.MySQL.Host == "" {
			return fmt.Errorf("output.mysql requires database and host")
		}
		if _, err := strconv.Atoi(settings.Output.MySQL.Port); err != nil {
			return fmt.Errorf("output.mysql.port must be numeric, got %q", settings.Output.MySQL.Port)
		}
	}
	if settings.WebServer.Enabled {
		port, err := strconv.Atoi(settings.WebServer.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("webserver.port must be a valid port number, got %q", settings.WebServer.Port)
		}
	}
	return nil
}
