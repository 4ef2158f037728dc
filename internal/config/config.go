package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
	} `yaml:"server"`

	Portal struct {
		URL            string        `yaml:"url"`
		Username       string        `yaml:"username"`
		Password       string        `yaml:"password"`
		BrowserPath    string        `yaml:"browser_path"`
		Headless       bool          `yaml:"headless"`
		NavTimeout     time.Duration `yaml:"nav_timeout"`
		LoginTimeout   time.Duration `yaml:"login_timeout"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		SessionTTL     time.Duration `yaml:"session_ttl"`
		PageSize       int           `yaml:"page_size"`
		MaxPages       int           `yaml:"max_pages"`
		// Strict makes missing portal credentials fatal at startup
		// instead of degrading to configured=false in status.
		Strict bool `yaml:"strict"`
	} `yaml:"portal"`

	Cache struct {
		TTL             time.Duration `yaml:"ttl"`
		MaxEntries      int           `yaml:"max_entries"`
		CleanupInterval time.Duration `yaml:"cleanup_interval"`
	} `yaml:"cache"`

	Database struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		User            string        `yaml:"user"`
		Password        string        `yaml:"password"`
		DBName          string        `yaml:"dbname"`
		SSLMode         string        `yaml:"sslmode"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	} `yaml:"database"`

	Directory struct {
		// Source is "static" (extensions below) or "database".
		Source     string            `yaml:"source"`
		Extensions map[string]string `yaml:"extensions"`
	} `yaml:"directory"`

	Auth struct {
		APIKeys []string `yaml:"api_keys"`
	} `yaml:"auth"`
}

// Load reads configuration from a YAML file and fills in defaults.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.applyDefaults()

	if config.Portal.Strict && !config.PortalConfigured() {
		return nil, fmt.Errorf("portal url, username and password are required in strict mode")
	}

	return &config, nil
}

// Default returns a configuration with all defaults applied and no
// portal credentials set.
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// Scrapes can take a while on large ranges.
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Portal.NavTimeout == 0 {
		c.Portal.NavTimeout = 30 * time.Second
	}
	if c.Portal.LoginTimeout == 0 {
		c.Portal.LoginTimeout = 45 * time.Second
	}
	if c.Portal.RequestTimeout == 0 {
		c.Portal.RequestTimeout = 20 * time.Second
	}
	if c.Portal.SessionTTL == 0 {
		c.Portal.SessionTTL = 20 * time.Minute
	}
	if c.Portal.PageSize == 0 {
		c.Portal.PageSize = 15
	}
	if c.Portal.MaxPages == 0 {
		c.Portal.MaxPages = 500
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 256
	}
	if c.Cache.CleanupInterval == 0 {
		c.Cache.CleanupInterval = 60 * time.Second
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 5 * time.Minute
	}
	if c.Directory.Source == "" {
		c.Directory.Source = "static"
	}
}

// PortalConfigured reports whether the portal credentials are present.
func (c *Config) PortalConfigured() bool {
	return c.Portal.URL != "" && c.Portal.Username != "" && c.Portal.Password != ""
}

// DatabaseConfigured reports whether a database host is set.
func (c *Config) DatabaseConfigured() bool {
	return c.Database.Host != ""
}

// MaskedUsername returns the portal username with everything past the
// first three characters hidden, for status reporting.
func (c *Config) MaskedUsername() string {
	u := c.Portal.Username
	if len(u) <= 3 {
		return u
	}
	return u[:3] + "***"
}
