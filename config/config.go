package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/firmtemplate/firm-api/internal/exitintent"
	"github.com/firmtemplate/firm-api/internal/scheduling"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Scheduling    SchedulingConfig
	ExitIntent    ExitIntentConfig
	Redis         RedisConfig
	Contact       ContactConfig
	Leads         LeadsConfig
}

type ServerConfig struct {
	Port             string
	GinMode          string
	AppEnv           string
	AllowedOrigins   []string
	MaxBodySizeBytes int64
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// SchedulingConfig holds the raw scheduling env values. They are resolved by the scheduling package, not here.
type SchedulingConfig struct {
	Provider       string
	CalendlyURL    string
	CalcomUsername string
}

type ExitIntentConfig struct {
	Frequency         string
	StorageKey        string
	SessionTTLMinutes int
	AllowedPaths      []string
	BlockedPaths      []string
}

type RedisConfig struct {
	URL string
}

type ContactConfig struct {
	RateLimitPerHour int
}

// LeadsConfig points accepted leads at a webhook. An empty URL keeps leads in the log only.
type LeadsConfig struct {
	WebhookURL            string
	WebhookSecret         string
	WebhookTimeoutSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_BODY_SIZE_BYTES", 1024*1024) // 1 MiB
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "firm-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "firm-template")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "firm-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("SCHEDULING_PROVIDER", "none")
	v.SetDefault("EXIT_INTENT_FREQUENCY", string(exitintent.FrequencySession))
	v.SetDefault("EXIT_INTENT_STORAGE_KEY", exitintent.DefaultStorageKey)
	v.SetDefault("EXIT_INTENT_SESSION_TTL_MINUTES", 30)
	v.SetDefault("EXIT_INTENT_ALLOWED_PATHS", "")
	v.SetDefault("EXIT_INTENT_BLOCKED_PATHS", strings.Join(exitintent.DefaultBlockedPaths, ","))
	v.SetDefault("CONTACT_RATE_LIMIT_PER_HOUR", 3)
	v.SetDefault("LEAD_WEBHOOK_TIMEOUT_SECONDS", 5)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:             v.GetString("PORT"),
			GinMode:          v.GetString("GIN_MODE"),
			AppEnv:           v.GetString("APP_ENV"),
			AllowedOrigins:   splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			MaxBodySizeBytes: v.GetInt64("MAX_BODY_SIZE_BYTES"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Scheduling: SchedulingConfig{
			Provider:       v.GetString("SCHEDULING_PROVIDER"),
			CalendlyURL:    v.GetString("CALENDLY_URL"),
			CalcomUsername: v.GetString("CALCOM_USERNAME"),
		},
		ExitIntent: ExitIntentConfig{
			Frequency:         v.GetString("EXIT_INTENT_FREQUENCY"),
			StorageKey:        v.GetString("EXIT_INTENT_STORAGE_KEY"),
			SessionTTLMinutes: v.GetInt("EXIT_INTENT_SESSION_TTL_MINUTES"),
			AllowedPaths:      splitList(v.GetString("EXIT_INTENT_ALLOWED_PATHS")),
			BlockedPaths:      splitList(v.GetString("EXIT_INTENT_BLOCKED_PATHS")),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		Contact: ContactConfig{
			RateLimitPerHour: v.GetInt("CONTACT_RATE_LIMIT_PER_HOUR"),
		},
		Leads: LeadsConfig{
			WebhookURL:            v.GetString("LEAD_WEBHOOK_URL"),
			WebhookSecret:         v.GetString("LEAD_WEBHOOK_SECRET"),
			WebhookTimeoutSeconds: v.GetInt("LEAD_WEBHOOK_TIMEOUT_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping blanks
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set.
// Scheduling values are deliberately not validated: a bad provider setup degrades to a hidden or errored CTA.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.MaxBodySizeBytes <= 0 {
		return fmt.Errorf("MAX_BODY_SIZE_BYTES must be positive")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if _, err := exitintent.ParseFrequency(c.ExitIntent.Frequency); err != nil {
		return fmt.Errorf("EXIT_INTENT_FREQUENCY: %w", err)
	}
	if c.ExitIntent.StorageKey == "" {
		return fmt.Errorf("EXIT_INTENT_STORAGE_KEY is required")
	}
	if c.ExitIntent.SessionTTLMinutes <= 0 {
		return fmt.Errorf("EXIT_INTENT_SESSION_TTL_MINUTES must be positive")
	}

	if c.Contact.RateLimitPerHour <= 0 {
		return fmt.Errorf("CONTACT_RATE_LIMIT_PER_HOUR must be positive")
	}

	if c.Leads.WebhookURL != "" {
		u, err := url.Parse(c.Leads.WebhookURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return fmt.Errorf("LEAD_WEBHOOK_URL must be an absolute http(s) URL")
		}
		if c.Leads.WebhookTimeoutSeconds <= 0 {
			return fmt.Errorf("LEAD_WEBHOOK_TIMEOUT_SECONDS must be positive")
		}
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// SchedulingInput converts the raw env values into resolver input
func (c *Config) SchedulingInput() scheduling.Input {
	return scheduling.Input{
		Provider:       c.Scheduling.Provider,
		CalendlyURL:    c.Scheduling.CalendlyURL,
		CalcomUsername: c.Scheduling.CalcomUsername,
	}
}

// ExitIntentFrequency returns the configured default frequency. Validate guarantees it parses.
func (c *Config) ExitIntentFrequency() exitintent.Frequency {
	f, err := exitintent.ParseFrequency(c.ExitIntent.Frequency)
	if err != nil {
		return exitintent.FrequencySession
	}
	return f
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
