package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the configuration values for the practice manager
// service. Values come from an optional YAML file overridden by
// environment variables.
type Config struct {
	HTTPPort         int
	SQLiteDSN        string
	EventSlotBackend string
	EventSlotPath    string
	LogFormat        string
	LogLevel         string
	SessionTTL       time.Duration
	OpenAIAPIKey     string
	OpenAIModel      string
	SessionPruneSpec string
	ReminderSyncSpec string
	SearchDebounce   time.Duration
	AdminEmail       string
	AdminPassword    string
}

// Event slot backends.
const (
	SlotBackendFile   = "file"
	SlotBackendSQLite = "sqlite"
)

func defaults() Config {
	return Config{
		HTTPPort:         8080,
		SQLiteDSN:        "file:legal-manager.db?_foreign_keys=on",
		EventSlotBackend: SlotBackendFile,
		EventSlotPath:    "calendar-events.json",
		LogFormat:        "json",
		LogLevel:         "info",
		SessionTTL:       12 * time.Hour,
		SessionPruneSpec: "@hourly",
		ReminderSyncSpec: "@every 15m",
		SearchDebounce:   300 * time.Millisecond,
	}
}

// Load builds the configuration. When LEGAL_CONFIG_FILE names a YAML
// file its values replace the defaults, then individual environment
// variables override both. Missing required values and unparseable
// values are reported together.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("LEGAL_CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("LEGAL_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "LEGAL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("LEGAL_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if backend := strings.TrimSpace(os.Getenv("LEGAL_EVENT_SLOT_BACKEND")); backend != "" {
		cfg.EventSlotBackend = backend
	}
	if cfg.EventSlotBackend != SlotBackendFile && cfg.EventSlotBackend != SlotBackendSQLite {
		invalid = append(invalid, "LEGAL_EVENT_SLOT_BACKEND")
	}

	if path := strings.TrimSpace(os.Getenv("LEGAL_EVENT_SLOT_PATH")); path != "" {
		cfg.EventSlotPath = path
	}

	if format := strings.TrimSpace(os.Getenv("LEGAL_LOG_FORMAT")); format != "" {
		cfg.LogFormat = format
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		invalid = append(invalid, "LEGAL_LOG_FORMAT")
	}

	if level := strings.TrimSpace(os.Getenv("LEGAL_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if ttlValue := strings.TrimSpace(os.Getenv("LEGAL_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "LEGAL_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if key := strings.TrimSpace(os.Getenv("LEGAL_OPENAI_API_KEY")); key != "" {
		cfg.OpenAIAPIKey = key
	}
	if model := strings.TrimSpace(os.Getenv("LEGAL_OPENAI_MODEL")); model != "" {
		cfg.OpenAIModel = model
	}

	if spec := strings.TrimSpace(os.Getenv("LEGAL_SESSION_PRUNE_SPEC")); spec != "" {
		cfg.SessionPruneSpec = spec
	}
	if spec := strings.TrimSpace(os.Getenv("LEGAL_REMINDER_SYNC_SPEC")); spec != "" {
		cfg.ReminderSyncSpec = spec
	}

	if debounceValue := strings.TrimSpace(os.Getenv("LEGAL_SEARCH_DEBOUNCE")); debounceValue != "" {
		debounce, err := time.ParseDuration(debounceValue)
		if err != nil || debounce <= 0 {
			invalid = append(invalid, "LEGAL_SEARCH_DEBOUNCE")
		} else {
			cfg.SearchDebounce = debounce
		}
	}

	if email := strings.TrimSpace(os.Getenv("LEGAL_ADMIN_EMAIL")); email != "" {
		cfg.AdminEmail = email
	}
	if password := os.Getenv("LEGAL_ADMIN_PASSWORD"); password != "" {
		cfg.AdminPassword = password
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// fileConfig mirrors Config with durations as strings, since YAML has
// no native duration scalar.
type fileConfig struct {
	HTTPPort         *int    `yaml:"http_port"`
	SQLiteDSN        *string `yaml:"sqlite_dsn"`
	EventSlotBackend *string `yaml:"event_slot_backend"`
	EventSlotPath    *string `yaml:"event_slot_path"`
	LogFormat        *string `yaml:"log_format"`
	LogLevel         *string `yaml:"log_level"`
	SessionTTL       *string `yaml:"session_ttl"`
	OpenAIAPIKey     *string `yaml:"openai_api_key"`
	OpenAIModel      *string `yaml:"openai_model"`
	SessionPruneSpec *string `yaml:"session_prune_spec"`
	ReminderSyncSpec *string `yaml:"reminder_sync_spec"`
	SearchDebounce   *string `yaml:"search_debounce"`
	AdminEmail       *string `yaml:"admin_email"`
	AdminPassword    *string `yaml:"admin_password"`
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.HTTPPort != nil {
		cfg.HTTPPort = *file.HTTPPort
	}
	if file.SQLiteDSN != nil {
		cfg.SQLiteDSN = *file.SQLiteDSN
	}
	if file.EventSlotBackend != nil {
		cfg.EventSlotBackend = *file.EventSlotBackend
	}
	if file.EventSlotPath != nil {
		cfg.EventSlotPath = *file.EventSlotPath
	}
	if file.LogFormat != nil {
		cfg.LogFormat = *file.LogFormat
	}
	if file.LogLevel != nil {
		cfg.LogLevel = *file.LogLevel
	}
	if file.SessionTTL != nil {
		ttl, err := time.ParseDuration(*file.SessionTTL)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("parse config file %s: invalid session_ttl %q", path, *file.SessionTTL)
		}
		cfg.SessionTTL = ttl
	}
	if file.OpenAIAPIKey != nil {
		cfg.OpenAIAPIKey = *file.OpenAIAPIKey
	}
	if file.OpenAIModel != nil {
		cfg.OpenAIModel = *file.OpenAIModel
	}
	if file.SessionPruneSpec != nil {
		cfg.SessionPruneSpec = *file.SessionPruneSpec
	}
	if file.ReminderSyncSpec != nil {
		cfg.ReminderSyncSpec = *file.ReminderSyncSpec
	}
	if file.SearchDebounce != nil {
		debounce, err := time.ParseDuration(*file.SearchDebounce)
		if err != nil || debounce <= 0 {
			return fmt.Errorf("parse config file %s: invalid search_debounce %q", path, *file.SearchDebounce)
		}
		cfg.SearchDebounce = debounce
	}
	if file.AdminEmail != nil {
		cfg.AdminEmail = *file.AdminEmail
	}
	if file.AdminPassword != nil {
		cfg.AdminPassword = *file.AdminPassword
	}
	return nil
}
