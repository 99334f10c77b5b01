package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the service configuration, one section per concern.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Storage    StorageConfig    `mapstructure:"storage"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	S3         S3Config         `mapstructure:"s3"`
	Log        LogConfig        `mapstructure:"log"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Email      EmailConfig      `mapstructure:"email"`
	Session    SessionConfig    `mapstructure:"session"`
	Submission SubmissionConfig `mapstructure:"submission"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

// EmailConfig selects the receipt mailer. FrontendURL is linked from
// receipts.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds database connection settings. Driver is "pgx" for
// PostgreSQL or "sqlite" for a local single-file database at Path.
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// Database drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DSN returns the driver connection string.
func (d *DBConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// MigrateURL returns the database URL in the form golang-migrate expects.
func (d *DBConfig) MigrateURL() string {
	if d.Driver == DriverSQLite {
		return "sqlite://" + d.Path
	}
	return d.DSN()
}

// StorageConfig selects where form sessions are persisted: "sql" uses the
// configured database, "memory" keeps them in process.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

// JWTConfig signs access and refresh tokens with HS256.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for attachment blobs.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig picks the slog level and handler (text or json).
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SessionConfig holds form session settings.
type SessionConfig struct {
	DraftDebounce   time.Duration `mapstructure:"draft_debounce"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	MaxAvatarSizeKB int64         `mapstructure:"max_avatar_size_kb"`
}

// SubmissionConfig holds the backend the forms are submitted to.
type SubmissionConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds request rate limits in ulule/limiter format.
type RateLimitConfig struct {
	Login string `mapstructure:"login"`
}

// defaults lists every recognised key. Each key is also readable from the
// environment as EXPENSEDESK_<KEY> with dots replaced by underscores.
var defaults = map[string]any{
	"server.port":             ":8080",
	"server.read_timeout":     "15s",
	"server.write_timeout":    "30s",
	"server.shutdown_timeout": "30s",
	"server.environment":      "development",

	"db.driver":   DriverPostgres,
	"db.host":     "localhost",
	"db.port":     5432,
	"db.user":     "expensedesk",
	"db.password": "expensedesk_secret",
	"db.name":     "expensedesk_db",
	"db.sslmode":  "disable",
	"db.path":     "expensedesk.db",
	"db.max_open": 25,
	"db.max_idle": 10,

	"storage.backend": BackendSQL,

	"jwt.secret":         insecureSecret,
	"jwt.access_expiry":  "15m",
	"jwt.refresh_expiry": "168h",
	"jwt.issuer":         "expensedesk",

	"s3.region":           "ap-south-1",
	"s3.bucket":           "expensedesk-attachments",
	"s3.endpoint":         "",
	"s3.access_key":       "",
	"s3.secret_key":       "",
	"s3.max_file_size_mb": 10,
	"s3.presign_expiry":   300,

	"log.level":  "debug",
	"log.format": "text",

	"cors.allowed_origins": "http://localhost:3000,http://127.0.0.1:3000",

	"email.provider":     "noop",
	"email.region":       "ap-south-1",
	"email.from_address": "noreply@expensedesk.local",
	"email.from_name":    "Expense Desk",
	"email.frontend_url": "http://localhost:3000",

	"session.draft_debounce":     "700ms",
	"session.idle_timeout":       "30m",
	"session.sweep_interval":     "1m",
	"session.max_avatar_size_kb": 512,

	"submission.base_url": "http://localhost:8000",
	"submission.timeout":  "15s",

	"ratelimit.login": "5-M",
}

const insecureSecret = "change-me-in-production"

// Session storage backends.
const (
	BackendSQL    = "sql"
	BackendMemory = "memory"
)

// Load reads configuration from a .env file, if present, and environment
// variables with the EXPENSEDESK_ prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EXPENSEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	// Hosting platforms set PORT; an explicit EXPENSEDESK_SERVER_PORT wins.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("EXPENSEDESK_SERVER_PORT") == "" {
		cfg.Server.Port = ":" + port
	}
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)
	cfg.Submission.BaseURL = strings.TrimRight(cfg.Submission.BaseURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.DB.Driver != DriverPostgres && c.DB.Driver != DriverSQLite:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	case c.Storage.Backend != BackendSQL && c.Storage.Backend != BackendMemory:
		return fmt.Errorf("config: unsupported storage.backend %q", c.Storage.Backend)
	case c.Server.Environment == "production" && c.JWT.Secret == insecureSecret:
		return fmt.Errorf("config: jwt.secret must be set in production")
	case c.Session.DraftDebounce <= 0:
		return fmt.Errorf("config: session.draft_debounce must be positive")
	}
	return nil
}

// splitList flattens comma-separated entries and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
