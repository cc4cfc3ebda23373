package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the menu bot.
type Config struct {
	General  GeneralConfig  `yaml:"general"`
	Store    StoreConfig    `yaml:"store"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Server   ServerConfig   `yaml:"server"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

type GeneralConfig struct {
	LogLevel string `yaml:"logLevel"`
	Timezone string `yaml:"timezone"` // all date arithmetic and triggers are anchored here
}

// StoreConfig locates the Google Sheet and its credentials. CredentialsJSON
// (inline service-account key) wins over CredentialsFile when both are set.
type StoreConfig struct {
	SpreadsheetID   string `yaml:"spreadsheetId"`
	Worksheet       string `yaml:"worksheet"`
	CredentialsJSON string `yaml:"credentialsJson,omitempty"`
	CredentialsFile string `yaml:"credentialsFile,omitempty"`
}

// WebhookConfig configures outbound announcement delivery.
type WebhookConfig struct {
	URL            string `yaml:"url"`
	Username       string `yaml:"username,omitempty"` // optional sender display name
	IconURL        string `yaml:"iconUrl,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// ServerConfig configures the inbound HTTP surface. BaseURL is the externally
// reachable address embedded into interactive buttons; when empty,
// announcements are posted without buttons.
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	BaseURL      string `yaml:"baseUrl,omitempty"`
	CommandToken string `yaml:"commandToken"`
}

// ScheduleConfig holds the two weekday cron triggers. Exact minutes are a
// tunable, not a contract.
type ScheduleConfig struct {
	Enabled    bool   `yaml:"enabled"`
	LunchCron  string `yaml:"lunchCron"`
	DinnerCron string `yaml:"dinnerCron"`
}

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			Timezone: "Asia/Seoul",
		},
		Store: StoreConfig{
			Worksheet: "Sheet1",
		},
		Webhook: WebhookConfig{
			TimeoutSeconds: 10,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Schedule: ScheduleConfig{
			Enabled:    true,
			LunchCron:  "50 10 * * 1-5",
			DinnerCron: "50 16 * * 1-5",
		},
	}
}

// Load reads a YAML config file, expands ${VAR} / ${VAR:-default} references
// against the environment, and validates the result on top of Defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a config purely from environment variables, the way the
// bot's original hosting environment supplied settings. Used when no config
// file is present.
func FromEnv() (*Config, error) {
	cfg := Defaults()

	cfg.Store.SpreadsheetID = os.Getenv("GOOGLE_SHEET_ID")
	if ws := os.Getenv("GOOGLE_WORKSHEET"); ws != "" {
		cfg.Store.Worksheet = ws
	}
	cfg.Store.CredentialsJSON = os.Getenv("GOOGLE_CREDENTIALS_JSON")
	cfg.Store.CredentialsFile = os.Getenv("GOOGLE_CREDENTIALS_FILE")

	cfg.Webhook.URL = os.Getenv("MATTERMOST_WEBHOOK_URL")
	cfg.Webhook.Username = os.Getenv("BOT_USERNAME")
	cfg.Webhook.IconURL = os.Getenv("BOT_ICON_URL")

	cfg.Server.BaseURL = os.Getenv("BASE_URL")
	cfg.Server.CommandToken = os.Getenv("COMMAND_TOKEN")
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("PORT must be a number, got %q", port)
		}
		cfg.Server.Port = p
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset
// or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}

// Validate checks that the config has valid values. Only startup may fail on
// configuration; request handlers never see an invalid config.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Store.SpreadsheetID == "" {
		errs = append(errs, "store.spreadsheetId is required")
	}
	if cfg.Store.Worksheet == "" {
		errs = append(errs, "store.worksheet must not be empty")
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if cfg.Webhook.TimeoutSeconds < 1 {
		errs = append(errs, "webhook.timeoutSeconds must be >= 1")
	}
	if cfg.Schedule.Enabled {
		if cfg.Schedule.LunchCron == "" || cfg.Schedule.DinnerCron == "" {
			errs = append(errs, "schedule.lunchCron and schedule.dinnerCron are required when schedule.enabled")
		}
	}
	if _, err := time.LoadLocation(cfg.General.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("general.timezone is not a valid location: %s", cfg.General.Timezone))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Location resolves the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
