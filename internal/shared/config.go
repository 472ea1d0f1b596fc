package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Routine  RoutineConfig  `toml:"routine"`
	Remote   RemoteConfig   `toml:"remote"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string  `toml:"host"`
	Port              int     `toml:"port"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig controls logger verbosity and the TUI log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// RoutineConfig contains the game settings for the morning routine.
type RoutineConfig struct {
	EnabledDays  []int   `toml:"enabled_days"`
	ShowIntro    bool    `toml:"show_intro"`
	SoundEnabled bool    `toml:"sound_enabled"`
	VoiceEnabled bool    `toml:"voice_enabled"`
	VoiceLang    string  `toml:"voice_lang"`
	VoiceVolume  float64 `toml:"voice_volume"`
	VoiceRate    float64 `toml:"voice_rate"`
	VoicePitch   float64 `toml:"voice_pitch"`
}

// IsEnabled reports whether the routine runs on the given weekday.
func (r RoutineConfig) IsEnabled(day time.Weekday) bool {
	for _, d := range r.EnabledDays {
		if time.Weekday(d) == day {
			return true
		}
	}
	return false
}

// RemoteConfig describes the optional server-side task endpoint.
type RemoteConfig struct {
	BaseURL           string  `toml:"base_url"`
	ClientID          string  `toml:"client_id"`
	ClientSecret      string  `toml:"client_secret"`
	TokenURL          string  `toml:"token_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxAttempts       int     `toml:"max_attempts"`
}

// Timeout returns the per-request timeout, defaulting to ten seconds.
func (r RemoteConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// CheckCredentials reports incomplete OAuth2 client credentials. Without a
// client id the remote is used unauthenticated and nothing is missing.
func (r RemoteConfig) CheckCredentials() error {
	if r.ClientID == "" {
		return nil
	}
	var missing []string
	if r.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if r.TokenURL == "" {
		missing = append(missing, "token_url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: remote %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	return LoadConfigFs(afero.NewOsFs(), path)
}

// LoadConfigFs reads and parses a TOML configuration file from afs.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfigFs(afs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(afs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(fs afero.Fs, path string) error {
	if exists, _ := afero.Exists(fs, path); exists {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := afero.WriteFile(fs, path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values from CHARGE_* environment variables.
//
// Call after godotenv has loaded any .env file.
func ApplyEnv(config *Config) {
	if v := os.Getenv("CHARGE_DB_PATH"); v != "" {
		config.Database.Path = v
	}
	if v := os.Getenv("CHARGE_REMOTE_BASE_URL"); v != "" {
		config.Remote.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("CHARGE_REMOTE_CLIENT_SECRET"); v != "" {
		config.Remote.ClientSecret = v
	}
	if v := os.Getenv("CHARGE_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
}
