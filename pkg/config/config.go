package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultPort            = 8080
	defaultStoreURL        = "sqlite://mediainfobot.db"
	defaultSampleBytes     = 1024 * 1024
	defaultWorkers         = 4
	defaultPollTimeout     = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultTelegramAPIURL  = "https://api.telegram.org"
	defaultTelegraphAPIURL = "https://api.telegra.ph"
	defaultPageBaseURL     = "https://graph.org"
)

// Config holds every runtime setting of the bot. All values come from
// environment variables; only BOT_TOKEN has no usable default.
type Config struct {
	BotToken        string `validate:"required"`
	TelegraphToken  string
	Address         string `validate:"required,hostname_port"`
	LogLevel        string `validate:"required,loglevel"`
	StoreURL        string `validate:"required"`
	TelegramAPIURL  string `validate:"required,url"`
	TelegraphAPIURL string `validate:"required,url"`
	PageBaseURL     string `validate:"required,url"`
	SampleBytes     int64  `validate:"gt=0"`
	Workers         int    `validate:"gt=0,lte=64"`
	PollTimeout     time.Duration
	ShutdownTimeout time.Duration
	Version         string
}

// FromEnv builds a Config from the process environment and validates it.
func FromEnv() (*Config, error) {
	port, err := intFromEnv("PORT", defaultPort)
	if err != nil {
		return nil, err
	}

	sampleBytes, err := intFromEnv("MEDIAINFO_SAMPLE_BYTES", defaultSampleBytes)
	if err != nil {
		return nil, err
	}

	workers, err := intFromEnv("MEDIAINFO_WORKERS", defaultWorkers)
	if err != nil {
		return nil, err
	}

	pollTimeout, err := durationFromEnv("MEDIAINFO_POLL_TIMEOUT", defaultPollTimeout)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := durationFromEnv("MEDIAINFO_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		TelegraphToken:  os.Getenv("TELEGRAPH_TOKEN"),
		Address:         fmt.Sprintf(":%d", port),
		LogLevel:        stringFromEnv("MEDIAINFO_LOG_LEVEL", "info"),
		StoreURL:        stringFromEnv("MEDIAINFO_STORE_URL", defaultStoreURL),
		TelegramAPIURL:  stringFromEnv("TELEGRAM_API_URL", defaultTelegramAPIURL),
		TelegraphAPIURL: stringFromEnv("TELEGRAPH_API_URL", defaultTelegraphAPIURL),
		PageBaseURL:     stringFromEnv("TELEGRAPH_PAGE_URL", defaultPageBaseURL),
		SampleBytes:     int64(sampleBytes),
		Workers:         workers,
		PollTimeout:     pollTimeout,
		ShutdownTimeout: shutdownTimeout,
		Version:         stringFromEnv("MEDIAINFO_VERSION", "dev"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	// fiber accepts a bare ":port" which hostname_port rejects.
	addressed := *c
	if len(addressed.Address) > 0 && addressed.Address[0] == ':' {
		addressed.Address = "localhost" + addressed.Address
	}

	if err := validate.Struct(&addressed); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

func newValidator() (*validator.Validate, error) {
	validate := validator.New()

	// Verify that the value names a logrus level.
	if err := validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "panic", "fatal", "error", "warn", "warning", "info", "debug", "trace":
			return true
		default:
			return false
		}
	}); err != nil {
		return nil, fmt.Errorf("validation registration failed: %w", err)
	}

	return validate, nil
}

func stringFromEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for %s: %w", v, key, err)
	}

	return n, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for %s: %w", v, key, err)
	}

	return d, nil
}
