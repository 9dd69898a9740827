package camera

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"negative device", Config{DeviceID: -1, Quality: 80}, true},
		{"quality too low", Config{Quality: 0}, true},
		{"quality too high", Config{Quality: 101}, true},
		{"negative resolution", Config{Quality: 80, Width: -640}, true},
		{"zero resolution keeps device default", Config{Quality: 80}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
