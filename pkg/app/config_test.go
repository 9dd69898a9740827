package app

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"remote with URL", func(c *Config) {
			c.SourceMode = SourceRemote
			c.RemoteURL = "ws://phone.local:9000/feed"
		}, false},
		{"remote without URL", func(c *Config) {
			c.SourceMode = SourceRemote
		}, true},
		{"unknown mode", func(c *Config) {
			c.SourceMode = "carrier-pigeon"
		}, true},
		{"bad camera size", func(c *Config) {
			c.Camera.Width = -1
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
