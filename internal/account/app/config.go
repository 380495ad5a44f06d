package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
	"github.com/joho/godotenv"
)

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	AppURL string // Frontend origin; accept links and OAuth redirects are built from it

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite file (default: ./tenantry.db)
	DatabaseURL    string // Postgres DSN, required for the postgres driver

	PepperFile     string        // Password pepper, created on first start (default: ./pepper)
	SessionKeyFile string        // Ed25519 session signing key, created on first start (default: ./session.pem)
	SessionIssuer  string        // iss claim of session tokens (default: tenantry)
	SessionTTL     time.Duration // Session lifetime (default: 24h)
	SessionCookie  string        // Cookie carrying the session token; empty disables it (default: tenantry_session)

	InviteTTL         time.Duration // Invite validity window (default: 7 days)
	InviteAllowAdmins bool          // Let admins invite members (default: false)
	OperationTimeout  time.Duration // Bound on each store, identity or mail call (default: 5s)

	MailDriver              string // gmail, smtp or log (default: log)
	MailFrom                string
	SMTPHost                string
	SMTPPort                int
	SMTPUsername            string
	SMTPPassword            string
	GoogleMailerCredentials string // Service account key JSON or a path to it
	GoogleMailerImpersonate string // Workspace user the Gmail sender acts as

	GoogleClientID     string // Google sign-in is disabled unless all three are set
	GoogleClientSecret string
	GoogleRedirectURL  string

	RedisURL string // OAuth state store; in-memory when empty

	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	OrphanBusinessGrace  time.Duration // Age before a memberless business is removed (default: 24h)
}

func LoadConfig() Config {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg := Config{
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		AppURL: os.Getenv("APP_URL"),

		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "tenantry.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),
		SessionKeyFile: getEnvOrDefault("SESSION_KEY_FILE", "session.pem"),
		SessionIssuer:  getEnvOrDefault("SESSION_ISSUER", "tenantry"),
		SessionTTL:     getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),
		SessionCookie:  getEnvOrDefault("SESSION_COOKIE", "tenantry_session"),

		InviteTTL:         getEnvDurationOrDefault("INVITE_TTL", service.DefaultInviteTTL),
		InviteAllowAdmins: getEnvBoolOrDefault("INVITE_ALLOW_ADMINS", false),
		OperationTimeout:  getEnvDurationOrDefault("OPERATION_TIMEOUT", service.DefaultOperationTimeout),

		MailDriver:              getEnvOrDefault("MAIL_DRIVER", "log"),
		MailFrom:                os.Getenv("MAIL_FROM"),
		SMTPHost:                os.Getenv("SMTP_HOST"),
		SMTPPort:                getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:            os.Getenv("SMTP_USERNAME"),
		SMTPPassword:            os.Getenv("SMTP_PASSWORD"),
		GoogleMailerCredentials: os.Getenv("GOOGLE_MAILER_CREDENTIALS"),
		GoogleMailerImpersonate: os.Getenv("GOOGLE_MAILER_IMPERSONATE"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		RedisURL: os.Getenv("REDIS_URL"),

		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", service.DefaultHousekeepingInterval),
		OrphanBusinessGrace:  getEnvDurationOrDefault("ORPHAN_BUSINESS_GRACE", service.DefaultOrphanGrace),
	}

	httpx.LoadRateLimitsFromEnv()

	return cfg
}

// GoogleSignIn reports whether Google OAuth is fully configured.
func (c Config) GoogleSignIn() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
