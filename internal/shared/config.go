package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Apps      AppsConfig      `toml:"apps"`
	Database  DatabaseConfig  `toml:"database"`
	Server    ServerConfig    `toml:"server"`
	Reminders RemindersConfig `toml:"reminders"`
	Library   LibraryConfig   `toml:"library"`
	Log       LogConfig       `toml:"log"`
}

// AppsConfig holds the backend endpoints for each application.
type AppsConfig struct {
	Goals     AppConfig `toml:"goals"`
	Media     AppConfig `toml:"media"`
	Portfolio AppConfig `toml:"portfolio"`
}

// AppConfig locates one REST backend and the bearer token issued by its identity provider.
type AppConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local print preview server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address. Port 0 picks a free port.
func (s ServerConfig) Addr() string {
	host := s.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("%s:%d", host, s.Port)
}

// RemindersConfig controls the reminder polling loop.
type RemindersConfig struct {
	Interval Duration `toml:"interval"`
	Window   Duration `toml:"window"`
	Desktop  bool     `toml:"desktop"`
	Ledger   bool     `toml:"ledger"`
}

// LibraryConfig controls bulk video processing.
type LibraryConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LogConfig controls logger verbosity.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a [time.Duration] that decodes from TOML strings such as "60s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv(os.Getenv)
	return config, nil
}

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		config := DefaultConfig()
		config.ApplyEnv(os.Getenv)
		return config, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			config := DefaultConfig()
			config.ApplyEnv(os.Getenv)
			return config, nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overrides app tokens with BRAIN_<APP>_TOKEN variables when present.
func (c *Config) ApplyEnv(getenv func(string) string) {
	for name, app := range map[string]*AppConfig{
		"GOALS":     &c.Apps.Goals,
		"MEDIA":     &c.Apps.Media,
		"PORTFOLIO": &c.Apps.Portfolio,
	} {
		if token := strings.TrimSpace(getenv("BRAIN_" + name + "_TOKEN")); token != "" {
			app.Token = token
		}
	}
}

// App returns the configuration for the named application: goals, media or portfolio.
func (c *Config) App(name string) (AppConfig, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "goals", "goal":
		return c.Apps.Goals, nil
	case "media", "video", "videos":
		return c.Apps.Media, nil
	case "portfolio", "profile", "profiles":
		return c.Apps.Portfolio, nil
	default:
		return AppConfig{}, fmt.Errorf("%w: unknown app %q (want goals, media or portfolio)", ErrInvalidArgument, name)
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
