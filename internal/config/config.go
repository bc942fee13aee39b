package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration

	APIBaseURL string
	APITimeout time.Duration

	CookieSecret      string
	AccessCookieName  string
	RefreshCookieName string
	CookieSecure      bool
	RefreshCookieTTL  time.Duration

	MaxUploadSize    int64
	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "3000"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 60*time.Second),
		APIBaseURL:         strings.TrimRight(getEnv("DEALLENS_API_URL", "http://localhost:8000"), "/"),
		APITimeout:         getDuration("DEALLENS_API_TIMEOUT", 30*time.Second),
		CookieSecret:       strings.TrimSpace(os.Getenv("COOKIE_SECRET")),
		AccessCookieName:   getEnv("ACCESS_COOKIE_NAME", "deallens_access_token"),
		RefreshCookieName:  getEnv("REFRESH_COOKIE_NAME", "deallens_refresh_token"),
		CookieSecure:       getBool("COOKIE_SECURE", false),
		RefreshCookieTTL:   getDuration("REFRESH_COOKIE_TTL", 168*time.Hour),
		MaxUploadSize:      getInt64("MAX_UPLOAD_SIZE", 26214400),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 300),
		AuthRateLimitRPM:   getInt("AUTH_RATE_LIMIT_RPM", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.CookieSecret) == "" {
		return fmt.Errorf("COOKIE_SECRET is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("DEALLENS_API_URL cannot be empty")
	}

	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("DEALLENS_API_URL is not a valid URL: %w", err)
	}

	if c.AccessCookieName == "" || c.RefreshCookieName == "" {
		return fmt.Errorf("cookie names cannot be empty")
	}

	if c.AccessCookieName == c.RefreshCookieName {
		return fmt.Errorf("access and refresh cookie names must differ")
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.RefreshCookieTTL <= 0 {
		return fmt.Errorf("REFRESH_COOKIE_TTL must be positive")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
