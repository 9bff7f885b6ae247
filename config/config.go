package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/units"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the process-wide, read-only runtime settings.
type Config struct {
	Env  string `mapstructure:"app_env"`
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`

	// APIKey authenticates calls to VirusTotal. It has no default: when empty
	// the scan endpoints refuse to run.
	APIKey         string        `mapstructure:"virustotal_api_key"`
	VTBaseURL      string        `mapstructure:"vt_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UploadTimeout  time.Duration `mapstructure:"upload_timeout"`

	URLScanMaxWait       time.Duration `mapstructure:"url_scan_max_wait"`
	URLScanPollInterval  time.Duration `mapstructure:"url_scan_poll_interval"`
	FileScanMaxWait      time.Duration `mapstructure:"file_scan_max_wait"`
	FileScanPollInterval time.Duration `mapstructure:"file_scan_poll_interval"`

	// MaxUploadSize is a human readable size such as "32MiB"; MaxUploadBytes
	// is its parsed value.
	MaxUploadSize  string `mapstructure:"max_upload_size"`
	MaxUploadBytes int64  `mapstructure:"-"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	GinMode   string `mapstructure:"gin_mode"`
}

const (
	keyAPIKey = "virustotal_api_key"

	DefaultMaxUploadSize = "32MiB"
)

// SetDefaults registers every default on v. The API key is bound to the
// environment only, never defaulted.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("host", "")
	v.SetDefault("port", "8080")
	v.SetDefault("vt_base_url", "https://www.virustotal.com/api/v3")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("upload_timeout", 60*time.Second)
	v.SetDefault("url_scan_max_wait", 25*time.Second)
	v.SetDefault("url_scan_poll_interval", 1200*time.Millisecond)
	v.SetDefault("file_scan_max_wait", 90*time.Second)
	v.SetDefault("file_scan_poll_interval", 2*time.Second)
	v.SetDefault("max_upload_size", DefaultMaxUploadSize)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("gin_mode", "release")

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(keyAPIKey)
}

// Load reads the optional YAML file at path (may be empty) on top of the
// environment and defaults registered on v.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("expanding config path %q: %w", path, err)
		}
		v.SetConfigFile(expanded)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", expanded, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would make the server misbehave. A missing
// API key is not an error here: /health reports it and scans fail closed.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.URLScanPollInterval <= 0 || c.FileScanPollInterval <= 0 {
		errs = append(errs, errors.New("poll intervals must be positive"))
	}
	if c.URLScanMaxWait < 0 || c.FileScanMaxWait < 0 {
		errs = append(errs, errors.New("scan max wait must not be negative"))
	}
	if c.RequestTimeout <= 0 || c.UploadTimeout <= 0 {
		errs = append(errs, errors.New("request and upload timeouts must be positive"))
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("gin mode must be debug, release or test, got %q", c.GinMode))
	}
	size, err := units.ParseStrictBytes(c.MaxUploadSize)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("could not parse max_upload_size: %w", err))
	case size <= 0:
		errs = append(errs, errors.New("max upload size must be positive"))
	default:
		c.MaxUploadBytes = size
	}
	return errors.Join(errs...)
}

// HasAPIKey reports whether a VirusTotal key is configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// ListenAddr is the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.Host + ":" + c.Port
}

// Redacted returns the effective settings of v with the API key masked,
// suitable for printing.
func Redacted(v *viper.Viper) map[string]any {
	settings := v.AllSettings()
	if key, ok := settings[keyAPIKey].(string); ok && key != "" {
		settings[keyAPIKey] = "********"
	} else {
		settings[keyAPIKey] = ""
	}
	return settings
}
