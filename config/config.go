package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultOverlayURL = "http://localhost:3001"

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string
	ServerPort  int

	LogLevel  string
	LogFormat string
	LogDir    string

	CORSAllowedOrigins []string

	Overlay OverlayConfig
	R2      R2Config

	TournamentStatusInterval time.Duration
}

// OverlayConfig describes the external broadcast overlay endpoint.
type OverlayConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	QueueSize     int
	RatePerSecond float64
}

// R2Config is optional as a group: media uploads are disabled when it is empty.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != "" || c.AccessKeyID != "" || c.SecretAccessKey != "" || c.BucketName != "" || c.PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := firstEnv("DATABASE_URL", "POSTGRES_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intEnv(8080, "SERVER_PORT", "PORT")
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	overlayURL := strings.TrimRight(firstEnv("OVERLAY_API_URL", "LOCAL_API_URL"), "/")
	if overlayURL == "" {
		overlayURL = defaultOverlayURL
	}
	overlayTimeout, err := durationEnv(2*time.Second, "OVERLAY_TIMEOUT")
	if err != nil {
		return nil, err
	}
	maxRetries, err := intEnv(3, "OVERLAY_MAX_RETRIES")
	if err != nil {
		return nil, err
	}
	if maxRetries < 0 {
		return nil, fmt.Errorf("OVERLAY_MAX_RETRIES must not be negative, got %d", maxRetries)
	}
	queueSize, err := intEnv(64, "OVERLAY_QUEUE_SIZE")
	if err != nil {
		return nil, err
	}
	if queueSize <= 0 {
		return nil, fmt.Errorf("OVERLAY_QUEUE_SIZE must be positive, got %d", queueSize)
	}
	ratePerSecond := 20.0
	if raw := os.Getenv("OVERLAY_RATE_PER_SECOND"); raw != "" {
		ratePerSecond, err = strconv.ParseFloat(raw, 64)
		if err != nil || ratePerSecond <= 0 {
			return nil, fmt.Errorf("invalid OVERLAY_RATE_PER_SECOND environment variable: %q", raw)
		}
	}

	statusInterval, err := durationEnv(time.Minute, "TOURNAMENT_STATUS_INTERVAL")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		LogLevel:           strings.ToLower(os.Getenv("LOG_LEVEL")),
		LogFormat:          strings.ToLower(os.Getenv("LOG_FORMAT")),
		LogDir:             os.Getenv("LOG_DIR"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS"), []string{"*"}),
		Overlay: OverlayConfig{
			BaseURL:       overlayURL,
			Timeout:       overlayTimeout,
			MaxRetries:    maxRetries,
			QueueSize:     queueSize,
			RatePerSecond: ratePerSecond,
		},
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		TournamentStatusInterval: statusInterval,
	}

	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func intEnv(def int, keys ...string) (int, error) {
	raw := firstEnv(keys...)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", keys[0], err)
	}
	return v, nil
}

func durationEnv(def time.Duration, key string) (time.Duration, error) {
	raw := firstEnv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(raw string, def []string) []string {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
