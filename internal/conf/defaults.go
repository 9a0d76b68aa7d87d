// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "WildTrack-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "wildtrack.log")
	viper.SetDefault("main.log.level", "info")

	viper.SetDefault("region.canonicalcode", "CO")
	viper.SetDefault("region.canonicalname", "Colorado")
	viper.SetDefault("region.boundarypath", "boundaries/gmu.geojson")
	viper.SetDefault("region.gridcell", 0.5)

	viper.SetDefault("extractor.endpoint", "http://localhost:8090/v1/extract")
	viper.SetDefault("extractor.timeout", 30*time.Second)

	viper.SetDefault("sources.feeds", []string{})
	viper.SetDefault("sources.forums", []string{})

	viper.SetDefault("ingest.workers", 4)
	viper.SetDefault("ingest.cachettl", 24*time.Hour)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "wildtrack.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "wildtrack")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.database", "wildtrack")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
}
