package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits comma separated lists
	"time"    // time parses token lifetimes
)

// InsecureJWTSecret is used when JWT_SECRET is unset. Tokens signed with it
// can be forged by anyone who reads this file; main logs a warning.
const InsecureJWTSecret = "change-me-insecure-secret"

// DefaultDatabaseURL mirrors the local MySQL database the service was first
// developed against.
const DefaultDatabaseURL = "mysql://root@localhost:3306/name_db"

// Config holds all runtime configuration values. It is built once at
// startup and passed explicitly to the constructors that need it.
type Config struct {
	Env         string        // application environment (e.g. "development", "production")
	Port        string        // HTTP port to listen on
	DatabaseURL string        // mysql://, postgres:// or memory://
	JWTSecret   string        // secret used to sign access tokens
	JWTIssuer   string        // optional iss claim
	AccessTTL   time.Duration // access token lifetime
	BcryptCost  int           // bcrypt cost for password hashing
	APIPrefix   string        // path prefix for the account routes
	CORSOrigins []string      // allowed origins, "*" for any
	LogDir      string        // directory of the rotating error log
	LogLevel    string        // debug, info, warn, error
	AdminEmail  string        // bootstrap admin, created when no admin exists
	AdminPass   string        // bootstrap admin password
	Redis       RedisConfig
	Cache       CacheConfig
}

// Load reads configuration values from environment variables. Every value
// has a default so the service starts on a bare machine; the defaults for
// the secret and the database are development values only.
func Load() Config {
	return Config{
		Env:         getenv("APP_ENV", "development"),
		Port:        getenv("APP_PORT", "5000"),
		DatabaseURL: getenv("DATABASE_URL", DefaultDatabaseURL),
		JWTSecret:   getenv("JWT_SECRET", InsecureJWTSecret),
		JWTIssuer:   getenv("JWT_ISSUER", "account-service"),
		AccessTTL:   time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 30)) * time.Minute,
		BcryptCost:  envInt("BCRYPT_COST", 10),
		APIPrefix:   strings.TrimRight(getenv("API_PREFIX", "/api/auth"), "/"),
		CORSOrigins: parseCSV(getenv("CORS_ALLOWED_ORIGINS", "*")),
		LogDir:      getenv("LOG_DIR", "logs"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		AdminEmail:  strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPass:   os.Getenv("ADMIN_PASSWORD"),
		Redis:       LoadRedisConfig(),
		Cache:       LoadCacheConfig(),
	}
}

// UsingInsecureSecret reports whether tokens are signed with the built-in
// development secret.
func (c Config) UsingInsecureSecret() bool {
	return c.JWTSecret == InsecureJWTSecret
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return ":" + c.Port
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt falls back to d when the variable is unset, unparsable or not positive.
func envInt(key string, d int) int {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
		return n
	}
	return d
}

func envBool(key string, d bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envDur(key string, d time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
		return dur
	}
	return d
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
