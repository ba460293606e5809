package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		MaxResults:  10,
		MaxPhotos:   5,
		PhotoFormat: "jpg",
		Browser:     "chrome",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max results", func(c *Config) { c.MaxResults = 0 }},
		{"negative max results", func(c *Config) { c.MaxResults = -1 }},
		{"zero max photos", func(c *Config) { c.MaxPhotos = 0 }},
		{"unknown photo format", func(c *Config) { c.PhotoFormat = "bmp" }},
		{"unknown browser", func(c *Config) { c.Browser = "netscape" }},
	}

	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestValidateAcceptsAllPhotoFormats(t *testing.T) {
	for _, format := range []string{"jpg", "webp", "png"} {
		cfg := validConfig()
		cfg.PhotoFormat = format
		if err := cfg.Validate(); err != nil {
			t.Errorf("format %q rejected: %v", format, err)
		}
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db.local",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "places",
		PostgresSSLMode:  "disable",
	}

	dsn := cfg.DSN()
	for _, part := range []string{"host=db.local", "port=5433", "user=u", "dbname=places", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
}
