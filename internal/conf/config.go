// config.go: settings struct and functions to load and save the application settings.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// LogSettings contains application log file settings.
type LogSettings struct {
	Enabled bool   // true to enable logging to a file
	Path    string // path to the log file
	Level   string // minimum log level: trace, debug, info, warn, error
}

// MainSettings contains top-level application settings.
type MainSettings struct {
	Name string      // node name, used to identify this instance
	Log  LogSettings // log settings
}

// RegionSettings describes the canonical study region and its sub-zones.
type RegionSettings struct {
	CanonicalCode string  // region code of the canonical study area, e.g. "CO"
	CanonicalName string  // human readable name, e.g. "Colorado"
	BoundaryPath  string  // path to the GeoJSON file with zone boundaries
	GridCell      float64 // grid cell size in degrees for the point lookup pre-filter
}

// ExtractorSettings configures the remote field-extraction service.
type ExtractorSettings struct {
	Endpoint string        // HTTP endpoint of the extraction gateway
	Timeout  time.Duration // per-request timeout
}

// SourcesSettings lists the upstream sighting sources to poll.
type SourcesSettings struct {
	Feeds  []string // RSS/Atom observation feed URLs
	Forums []string // forum thread URLs to scrape
}

// IngestSettings tunes the ingestion pipeline.
type IngestSettings struct {
	Workers  int           // number of concurrent pipeline workers
	CacheTTL time.Duration // how long recently seen source documents are remembered
}

// SQLiteSettings contains SQLite output settings.
type SQLiteSettings struct {
	Enabled bool
	Path    string
}

// MySQLSettings contains MySQL output settings.
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Database string
	Host     string
	Port     string
}

// OutputSettings selects and configures the sighting store.
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// WebServerSettings contains settings for the HTTP API.
type WebServerSettings struct {
	Enabled bool
	Port    string
}

// Settings is the root of the configuration tree.
type Settings struct {
	Debug bool

	Main      MainSettings
	Region    RegionSettings
	Extractor ExtractorSettings
	Sources   SourcesSettings
	Ingest    IngestSettings
	Output    OutputSettings
	WebServer WebServerSettings
}

// Load reads the configuration file and returns the populated settings.
func Load() (*Settings, error) {
	setDefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	for _, path := range configPaths() {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file found, create one from the embedded defaults.
		if err := createDefaultConfig(); err != nil {
			return nil, err
		}
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading created config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveAs writes the settings to path as YAML, creating parent
// directories as needed.
func (s *Settings) SaveAs(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// configPaths returns the directories searched for a config file, most
// specific first.
func configPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "wildtrack"))
	}
	paths = append(paths, "/etc/wildtrack")
	return paths
}

// createDefaultConfig writes the embedded default config to the user config dir.
func createDefaultConfig() error {
	dir, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("resolving user config dir: %w", err)
	}
	configPath := filepath.Join(dir, "wildtrack", "config.yaml")
	defaultConfig, err := configFiles.ReadFile("config.yaml")
	if err != nil {
		return fmt.Errorf("reading embedded config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	log.Printf("Created default config file at %s", configPath)
	return nil
}
