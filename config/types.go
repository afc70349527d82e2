package config

// Config represents the complete configuration structure
type Config struct {
	PowerDNS PowerDNSConfig `mapstructure:"powerdns"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PowerDNSConfig holds PowerDNS API connection details
type PowerDNSConfig struct {
	URL      string `mapstructure:"url"`
	APIKey   string `mapstructure:"api_key"`
	ServerID string `mapstructure:"server_id"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
