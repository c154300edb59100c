package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress               string
	DatabaseURI              string
	StoreAPIAddress          string
	SessionSecret            string
	NotificationPollInterval time.Duration
	NotificationBrokers      []string
	NotificationTopic        string
	CartSlotPrefix           string
	APITimeout               time.Duration
	ShutdownTimeout          time.Duration
	LogLevel                 string
}

const (
	defaultRunAddress               = ":8080"
	defaultSessionSecret            = "change-me-in-production"
	defaultNotificationPollInterval = 30 * time.Second
	defaultNotificationTopic        = "storefront.notifications"
	defaultCartSlotPrefix           = "cart"
	defaultAPITimeout               = 10 * time.Second
	defaultShutdownTimeout          = 10 * time.Second
	defaultLogLevel                 = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		StoreAPIAddress:   getString(lookup, "STORE_API_ADDRESS", ""),
		SessionSecret:     getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		NotificationTopic: getString(lookup, "NOTIFICATION_TOPIC", defaultNotificationTopic),
		CartSlotPrefix:    getString(lookup, "CART_SLOT_PREFIX", defaultCartSlotPrefix),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = getString(lookup, "NOTIFICATION_POLL_INTERVAL", defaultNotificationPollInterval.String())
		apiTimeoutStr      = getString(lookup, "API_TIMEOUT", defaultAPITimeout.String())
		shutdownTimeoutStr = getString(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout.String())
		brokersStr         = getString(lookup, "NOTIFICATION_BROKERS", "")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.StoreAPIAddress, "r", cfg.StoreAPIAddress, "Marketplace API base URL")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for verifying session tokens")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between notification polls")
	fs.StringVar(&brokersStr, "notify-brokers", brokersStr, "Comma separated Kafka brokers for pushed notifications")
	fs.StringVar(&cfg.NotificationTopic, "notify-topic", cfg.NotificationTopic, "Kafka topic carrying notifications")
	fs.StringVar(&cfg.CartSlotPrefix, "cart-slot", cfg.CartSlotPrefix, "Name prefix of persisted cart slots")
	fs.StringVar(&apiTimeoutStr, "api-timeout", apiTimeoutStr, "Marketplace API call timeout")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.NotificationPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.APITimeout, err = time.ParseDuration(apiTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid api timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.NotificationBrokers = splitList(brokersStr)

	if secretFile, ok := lookup("SESSION_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read session secret file: %w", err)
		}
		cfg.SessionSecret = strings.TrimSpace(string(content))
	}

	if cfg.NotificationPollInterval <= 0 {
		cfg.NotificationPollInterval = defaultNotificationPollInterval
	}

	if cfg.APITimeout <= 0 {
		cfg.APITimeout = defaultAPITimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.CartSlotPrefix == "" {
		cfg.CartSlotPrefix = defaultCartSlotPrefix
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.StoreAPIAddress == "" {
		return nil, fmt.Errorf("store api address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
