package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestFromViper(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantUrl string
		wantErr bool
	}{
		{
			name:    "url derived from hostname",
			values:  map[string]any{"hostname": "Example.org"},
			wantUrl: "http://example.org",
		},
		{
			name:    "https",
			values:  map[string]any{"hostname": "example.org", "https": true},
			wantUrl: "https://example.org",
		},
		{
			name:    "explicit url",
			values:  map[string]any{"hostname": "example.org", "url": "https://example.org:8443"},
			wantUrl: "https://example.org:8443",
		},
		{
			name:    "empty hostname",
			values:  map[string]any{"hostname": " "},
			wantErr: true,
		},
		{
			name:    "short session key",
			values:  map[string]any{"hostname": "example.org", "session_key": "short"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			for k, val := range tt.values {
				v.Set(k, val)
			}

			cfg, err := FromViper(v)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got := cfg.Url.String(); got != tt.wantUrl {
				t.Errorf("expected url %s, got %s", tt.wantUrl, got)
			}
		})
	}
}

func TestLimit(t *testing.T) {
	cfg := Configuration{PageSize: 20, MaxPageSize: 100}
	cases := map[int]int{0: 20, -3: 20, 5: 5, 100: 100, 1000: 100}
	for in, want := range cases {
		if got := cfg.Limit(in); got != want {
			t.Errorf("Limit(%d) = %d, expected %d", in, got, want)
		}
	}
}
