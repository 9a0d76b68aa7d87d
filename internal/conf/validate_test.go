package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSettings() *Settings {
	s := &Settings{}
	s.Region.CanonicalCode = "CO"
	s.Region.CanonicalName = "Colorado"
	s.Region.GridCell = 0.5
	s.Ingest.Workers = 4
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "wildtrack.db"
	s.WebServer.Enabled = true
	s.WebServer.Port = "8080"
	return s
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid defaults", func(s *Settings) {}, false},
		{"empty canonical code", func(s *Settings) { s.Region.CanonicalCode = "" }, true},
		{"empty canonical name", func(s *Settings) { s.Region.CanonicalName = "" }, true},
		{"zero grid cell", func(s *Settings) { s.Region.GridCell = 0 }, true},
		{"oversized grid cell", func(s *Settings) { s.Region.GridCell = 45 }, true},
		{"no workers", func(s *Settings) { s.Ingest.Workers = 0 }, true},
		{"both outputs enabled", func(s *Settings) { s.Output.MySQL.Enabled = true; s.Output.MySQL.Database = "db"; s.Output.MySQL.Host = "h"; s.Output.MySQL.Port = "3306" }, true},
		{"mysql missing host", func(s *Settings) {
			s.Output.SQLite.Enabled = false
			s.Output.MySQL.Enabled = true
			s.Output.MySQL.Database = "db"
		}, true},
		{"mysql bad port", func(s *Settings) {
			s.Output.SQLite.Enabled = false
			s.Output.MySQL.Enabled = true
			s.Output.MySQL.Database = "db"
			s.Output.MySQL.Host = "localhost"
			s.Output.MySQL.Port = "not-a-port"
		}, true},
		{"webserver bad port", func(s *Settings) { s.WebServer.Port = "99999" }, true},
		{"webserver disabled ignores port", func(s *Settings) { s.WebServer.Enabled = false; s.WebServer.Port = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
