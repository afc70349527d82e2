package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		PowerDNS: PowerDNSConfig{
			URL:      "http://localhost:8081",
			APIKey:   "valid-api-key",
			ServerID: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "powerdns:\n  api_key: valid-api-key\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PowerDNS.APIKey != "valid-api-key" {
		t.Errorf("api_key = %q, want %q", cfg.PowerDNS.APIKey, "valid-api-key")
	}

	// Everything not in the file comes from defaults
	if cfg.PowerDNS.URL != "http://localhost:8081" {
		t.Errorf("url = %q, want default", cfg.PowerDNS.URL)
	}
	if cfg.PowerDNS.ServerID != "localhost" {
		t.Errorf("server_id = %q, want %q", cfg.PowerDNS.ServerID, "localhost")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("logging.format = %q, want %q", cfg.Logging.Format, "console")
	}
	if !cfg.Logging.Color {
		t.Error("logging.color = false, want default true")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `powerdns:
  url: https://ns1.example.com:8081
  api_key: valid-api-key
  server_id: ns1
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PowerDNS.URL != "https://ns1.example.com:8081" {
		t.Errorf("url = %q", cfg.PowerDNS.URL)
	}
	if cfg.PowerDNS.ServerID != "ns1" {
		t.Errorf("server_id = %q, want %q", cfg.PowerDNS.ServerID, "ns1")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() expected error for missing config file")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	// No API key set
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected validation error without api_key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.PowerDNS.URL = "" },
			wantErr: true,
		},
		{
			name:    "missing API key",
			mutate:  func(c *Config) { c.PowerDNS.APIKey = "" },
			wantErr: true,
		},
		{
			name:    "placeholder API key",
			mutate:  func(c *Config) { c.PowerDNS.APIKey = "your-api-key-here" },
			wantErr: true,
		},
		{
			name:    "missing server ID",
			mutate:  func(c *Config) { c.PowerDNS.ServerID = "" },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
