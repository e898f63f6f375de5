package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/student-portal-api/internal/ledger"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	CORSAllowOrigins       string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	EventsChannel          string
	JWTSecret              string
	JWTIssuer              string
	JWTAccessTTL           time.Duration
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	DashboardCacheTTL      time.Duration
	NoticesCacheTTL        time.Duration
	LibraryFinePerDay      float64
	LibraryMaxRenewals     int
	LibraryExtensionDays   int
	LedgerMaxRetries       int
	LoginRateLimitMax      int
	LoginRateLimitWindow   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// LoanPolicy returns the library policy applied to new loans and renewals.
func (c Config) LoanPolicy() ledger.LoanPolicy {
	return ledger.LoanPolicy{
		FinePerDay:    c.LibraryFinePerDay,
		MaxRenewals:   c.LibraryMaxRenewals,
		ExtensionDays: c.LibraryExtensionDays,
	}.Normalize()
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Student Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.cors_origins", "*")
	v.SetDefault("events.channel", "portal")
	v.SetDefault("jwt.issuer", "student-portal")
	v.SetDefault("jwt.access_ttl", "24h")
	v.SetDefault("cloudinary.folder", "student-portal/submissions")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("notices.cache_ttl", "2m")
	v.SetDefault("library.fine_per_day", ledger.DefaultFinePerDay)
	v.SetDefault("library.max_renewals", ledger.DefaultMaxRenewals)
	v.SetDefault("library.extension_days", ledger.DefaultExtensionDays)
	v.SetDefault("ledger.max_retries", 3)
	v.SetDefault("ratelimit.login_max", 10)
	v.SetDefault("ratelimit.login_window", "1m")

	dashboardTTL, err := parseDuration(v, "dashboard.cache_ttl", "5m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	noticesTTL, err := parseDuration(v, "notices.cache_ttl", "2m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid notices cache ttl: %w", err)
	}

	accessTTL, err := parseDuration(v, "jwt.access_ttl", "24h")
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt access ttl: %w", err)
	}

	loginWindow, err := parseDuration(v, "ratelimit.login_window", "1m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid login rate limit window: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		CORSAllowOrigins:       v.GetString("app.cors_origins"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		EventsChannel:          v.GetString("events.channel"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTIssuer:              v.GetString("jwt.issuer"),
		JWTAccessTTL:           accessTTL,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		DashboardCacheTTL:      dashboardTTL,
		NoticesCacheTTL:        noticesTTL,
		LibraryFinePerDay:      v.GetFloat64("library.fine_per_day"),
		LibraryMaxRenewals:     v.GetInt("library.max_renewals"),
		LibraryExtensionDays:   v.GetInt("library.extension_days"),
		LedgerMaxRetries:       v.GetInt("ledger.max_retries"),
		LoginRateLimitMax:      v.GetInt("ratelimit.login_max"),
		LoginRateLimitWindow:   loginWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LedgerMaxRetries <= 0 {
		cfg.LedgerMaxRetries = 3
	}

	if cfg.LoginRateLimitMax <= 0 {
		cfg.LoginRateLimitMax = 10
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		raw = fallback
	}
	return time.ParseDuration(raw)
}
