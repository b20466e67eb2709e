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

// Authentication modes. They are mutually exclusive.
const (
	AuthModePassword         = "password"
	AuthModeIdentityProvider = "identity-provider"
)

// Record store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverRedis    = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Auth   AuthConfig
	Store  StoreConfig
	Export ExportConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines the single admin identity and token parameters.
type AuthConfig struct {
	Mode              string
	JWTSecret         string
	TokenTTLMinutes   int
	BcryptCost        int
	AdminEmail        string
	AdminPassword     string
	AdminPasswordHash string
	AllowedEmails     []string
	IdentityProvider  IdentityProviderConfig
}

// IdentityProviderConfig describes the external OpenID Connect issuer whose
// ID tokens are accepted in identity-provider mode.
type IdentityProviderConfig struct {
	TenantID string
	ClientID string
	Issuer   string
	JWKSURL  string
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Driver   string
	Dir      string
	Postgres PostgresConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// SQLiteConfig points at the database file.
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// ExportConfig controls spreadsheet rendering.
type ExportConfig struct {
	TimeZone string
	Location *time.Location
}

// Load reads configuration from environment variables, applying defaults where possible.
// Secrets have no defaults: a missing JWT secret or admin identity is an error.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStore reads the same environment as Load but only validates the
// store and export sections, for offline tools that never issue credentials.
func LoadStore() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := errors.Join(cfg.validateStore()...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "feedback-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Mode:              strings.ToLower(getEnv("AUTH_MODE", AuthModePassword)),
			JWTSecret:         os.Getenv("AUTH_JWT_SECRET"),
			TokenTTLMinutes:   getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 120),
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AdminEmail:        strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
			AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			AllowedEmails:     getEnvAsList("ADMIN_ALLOWED_EMAILS"),
			IdentityProvider:  readIdentityProvider(),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverFile)),
			Dir:    getEnv("STORE_DIR", "data"),
			Postgres: PostgresConfig{
				DSN:            os.Getenv("POSTGRES_DSN"),
				MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
				MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
				RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
				ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
				ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			},
			SQLite: SQLiteConfig{
				Path: getEnv("SQLITE_PATH", "data/portal.db"),
			},
			Redis: RedisConfig{
				Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
				Password:  os.Getenv("REDIS_PASSWORD"),
				DB:        redisDB,
				KeyPrefix: getEnv("REDIS_KEY_PREFIX", "feedback-portal:"),
			},
		},
		Export: ExportConfig{
			TimeZone: getEnv("EXPORT_TIMEZONE", "UTC"),
		},
	}

	loc, err := time.LoadLocation(cfg.Export.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_TIMEZONE: %w", err)
	}
	cfg.Export.Location = loc
	return cfg, nil
}

// readIdentityProvider derives the Microsoft identity platform endpoints
// from IDP_TENANT_ID unless they are set explicitly.
func readIdentityProvider() IdentityProviderConfig {
	idp := IdentityProviderConfig{
		TenantID: strings.TrimSpace(os.Getenv("IDP_TENANT_ID")),
		ClientID: strings.TrimSpace(os.Getenv("IDP_CLIENT_ID")),
		Issuer:   strings.TrimSpace(os.Getenv("IDP_ISSUER")),
		JWKSURL:  strings.TrimSpace(os.Getenv("IDP_JWKS_URL")),
	}
	if idp.TenantID != "" {
		if idp.Issuer == "" {
			idp.Issuer = fmt.Sprintf("https://login.microsoftonline.com/%s/v2.0", idp.TenantID)
		}
		if idp.JWKSURL == "" {
			idp.JWKSURL = fmt.Sprintf("https://login.microsoftonline.com/%s/discovery/v2.0/keys", idp.TenantID)
		}
	}
	return idp
}

// Validate checks that the configuration can serve requests.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	switch c.Auth.Mode {
	case AuthModePassword:
		if c.Auth.AdminEmail == "" {
			errs = append(errs, errors.New("ADMIN_EMAIL is required in password mode"))
		}
		if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
			errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in password mode"))
		}
	case AuthModeIdentityProvider:
		if len(c.Auth.AllowedEmails) == 0 {
			errs = append(errs, errors.New("ADMIN_ALLOWED_EMAILS is required in identity-provider mode"))
		}
		idp := c.Auth.IdentityProvider
		if idp.ClientID == "" {
			errs = append(errs, errors.New("IDP_CLIENT_ID is required in identity-provider mode"))
		}
		if idp.Issuer == "" || idp.JWKSURL == "" {
			errs = append(errs, errors.New("IDP_TENANT_ID (or IDP_ISSUER and IDP_JWKS_URL) is required in identity-provider mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported AUTH_MODE %q", c.Auth.Mode))
	}
	errs = append(errs, c.validateStore()...)
	return errors.Join(errs...)
}

func (c *Config) validateStore() []error {
	var errs []error
	switch c.Store.Driver {
	case StoreDriverFile, StoreDriverMemory, StoreDriverSQLite, StoreDriverRedis:
	case StoreDriverPostgres:
		if c.Store.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver))
	}
	return errs
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the admin credential lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
