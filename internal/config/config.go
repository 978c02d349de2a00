package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverGorm      = "gorm"
	DriverFirestore = "firestore"
)

type Config struct {
	Port        string
	StoreDriver string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	GoogleClientIDs   []string
	FacebookAppID     string
	FacebookAppSecret string

	FirebaseProjectID   string
	FirebaseCredentials string
	FCMServiceAccount   string

	ResendAPIKey string
	MailFrom     string
	AppBaseURL   string

	StaticDir   string
	UploadDir   string
	CORSOrigins string

	LogLevel    string
	LogEncoding string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Location        *time.Location
}

const defaultSecret = "your-secret-key-change-in-production"

// Load reads the environment, optionally seeded from a .env file.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:        getString("PORT", "8080"),
		StoreDriver: strings.ToLower(getString("STORE_DRIVER", DriverGorm)),
		DatabaseURL: getString("DATABASE_URL", "coachly.db"),

		JWTSecret: getString("JWT_SECRET", defaultSecret),
		TokenTTL:  getDuration("TOKEN_TTL", 7*24*time.Hour),

		GoogleClientIDs:   getList("GOOGLE_CLIENT_IDS"),
		FacebookAppID:     getString("FACEBOOK_APP_ID", ""),
		FacebookAppSecret: getString("FACEBOOK_APP_SECRET", ""),

		FirebaseProjectID:   getString("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getString("FIREBASE_CREDENTIALS", ""),
		FCMServiceAccount:   getString("FCM_SERVICE_ACCOUNT", ""),

		ResendAPIKey: getString("RESEND_API_KEY", ""),
		MailFrom:     getString("MAIL_FROM", "Coachly <no-reply@coachly.app>"),
		AppBaseURL:   strings.TrimRight(getString("APP_BASE_URL", "http://localhost:8080"), "/"),

		StaticDir:   getString("STATIC_DIR", "./web"),
		UploadDir:   getString("UPLOAD_DIR", "./uploads"),
		CORSOrigins: getString("CORS_ORIGINS", "*"),

		LogLevel:    getString("LOG_LEVEL", "info"),
		LogEncoding: getString("LOG_ENCODING", "json"),

		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	loc, err := time.LoadLocation(getString("TIMEZONE", "UTC"))
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverGorm:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the gorm store")
		}
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore store")
		}
	default:
		return errors.New("STORE_DRIVER must be gorm or firestore")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// FirebaseEnabled reports whether Firebase identity verification can be set up.
func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseProjectID != "" || c.FirebaseCredentials != ""
}

func (c *Config) Address() string {
	return ":" + c.Port
}

func getString(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
