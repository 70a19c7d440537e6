package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Telegram TelegramConfig
	Server   ServerConfig
	RatesAPI RatesAPIConfig
	Cache    CacheConfig
	LogLevel string
}

type TelegramConfig struct {
	Token      string
	WebhookURL string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RatesAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type CacheConfig struct {
	RefreshInterval time.Duration
	DataDir         string
	HistoryTTL      time.Duration
}

// WebhookEndpoint is the public URL the chat platform posts updates to
func (c TelegramConfig) WebhookEndpoint() string {
	return strings.TrimRight(c.WebhookURL, "/") + "/" + c.Token
}

// LoadConfig reads an optional .env file and then the process environment
func LoadConfig() (*Config, error) {
	// A missing .env is expected outside local development
	_ = godotenv.Load()

	config := &Config{
		Telegram: TelegramConfig{
			Token:      getEnvString("TELEGRAM_BOT_TOKEN", ""),
			WebhookURL: getEnvString("WEBHOOK_URL", "https://exchange-quotes-telegram-bot.herokuapp.com/"),
		},
		Server: ServerConfig{
			Port:         getEnvInt("PORT", 0),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		RatesAPI: RatesAPIConfig{
			BaseURL: getEnvString("RATES_API_BASE_URL", "https://api.exchangeratesapi.io"),
			APIKey:  getEnvString("RATES_API_KEY", ""),
			Timeout: getEnvDuration("RATES_API_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			RefreshInterval: time.Duration(getEnvInt("RATES_REFRESH_MINUTES", 10)) * time.Minute,
			DataDir:         getEnvString("DATA_DIR", "data"),
			HistoryTTL:      getEnvDuration("HISTORY_CACHE_TTL", 24*time.Hour),
		},
		LogLevel: getEnvString("LOG_LEVEL", "warn"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings the bot cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is not set"))
	}
	if c.Server.Port <= 0 {
		errs = append(errs, errors.New("PORT is not set"))
	}
	if c.Cache.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("rates refresh interval must be positive, got %s", c.Cache.RefreshInterval))
	}
	return errors.Join(errs...)
}

func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Invalid duration for %s, using default: %s\n", key, defaultValue)
		return defaultValue
	}

	return value
}
