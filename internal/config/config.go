package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime option the bot recognizes. Values come from
// environment variables; the search filter set may additionally come from
// a YAML file (see LoadSearch).
type Config struct {
	TelegramBotToken  string
	TelegramChannelID int64

	FeedBaseURL string
	FeedTimeout time.Duration

	PollInterval time.Duration
	DatabasePath string

	LogLevel  string
	LogToFile bool

	MetricsAddr string // empty disables the /metrics listener

	CollageOutputWidth  int
	CollageOutputHeight int
	CollageBorderFrac   float64
	MaxAspectRatio      float64
	DownloadWorkers     int

	MaxDescriptionLength int
	MessageDelaySeconds  []int

	FallbackPrice    string
	FallbackLocation string
	FallbackTime     string
	OfferButtonLabel string

	Search SearchParams
}

func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is required but not set")
	}

	channelID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHANNEL_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHANNEL_ID %q: %w", os.Getenv("TELEGRAM_CHANNEL_ID"), err)
	}

	feedBaseURL := os.Getenv("FEED_BASE_URL")
	if feedBaseURL == "" {
		feedBaseURL = "https://www.olx.uz/api/v1/offers"
	}

	feedTimeout, err := envDuration("FEED_REQUEST_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	pollInterval, err := envDuration("POLL_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "offers.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	collageWidth, err := envInt("COLLAGE_OUTPUT_WIDTH", 3840)
	if err != nil {
		return nil, err
	}
	collageHeight, err := envInt("COLLAGE_OUTPUT_HEIGHT", 2160)
	if err != nil {
		return nil, err
	}
	borderFrac, err := envFloat("COLLAGE_BORDER_WIDTH", 0.006)
	if err != nil {
		return nil, err
	}
	maxAspect, err := envFloat("MAX_ASPECT_RATIO", 1.5)
	if err != nil {
		return nil, err
	}
	workers, err := envInt("MAX_DOWNLOAD_WORKERS", 5)
	if err != nil {
		return nil, err
	}
	maxDescLen, err := envInt("MAX_DESCRIPTION_LENGTH", 800)
	if err != nil {
		return nil, err
	}

	delays, err := envIntList("MESSAGE_DELAY_SECONDS", []int{1, 2, 3})
	if err != nil {
		return nil, err
	}

	search, err := LoadSearch(os.Getenv("SEARCH_CONFIG_PATH"))
	if err != nil {
		return nil, err
	}

	return &Config{
		TelegramBotToken:     token,
		TelegramChannelID:    channelID,
		FeedBaseURL:          feedBaseURL,
		FeedTimeout:          feedTimeout,
		PollInterval:         pollInterval,
		DatabasePath:         dbPath,
		LogLevel:             logLevel,
		LogToFile:            os.Getenv("LOG_TO_FILE") == "true",
		MetricsAddr:          os.Getenv("METRICS_ADDR"),
		CollageOutputWidth:   collageWidth,
		CollageOutputHeight:  collageHeight,
		CollageBorderFrac:    borderFrac,
		MaxAspectRatio:       maxAspect,
		DownloadWorkers:      workers,
		MaxDescriptionLength: maxDescLen,
		MessageDelaySeconds:  delays,
		FallbackPrice:        envString("FALLBACK_PRICE_TEXT", "Цена не указана"),
		FallbackLocation:     envString("FALLBACK_LOCATION_TEXT", "Локация не указана"),
		FallbackTime:         envString("FALLBACK_TIME_TEXT", "Время не указано"),
		OfferButtonLabel:     envString("OFFER_BUTTON_LABEL", "Объявления / E'lon 🔗"),
		Search:               search,
	}, nil
}

// SlogLevel maps the configured level string onto a slog level, defaulting
// to Info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}

func envIntList(key string, def []int) ([]int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		out = append(out, n)
	}
	return out, nil
}
