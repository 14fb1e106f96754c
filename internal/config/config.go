package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	Client    ClientConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	ManagerRoles   []string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Database      string
	Schema        string
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

// ClientConfig configures the admin shell's REST client
type ClientConfig struct {
	BaseURL     string
	UserVariant string
	Timeout     time.Duration // zero means no timeout
	SessionFile string
	PageSize    int
}

// IsDevelopment reports whether the server runs in the development env
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// DSN builds the postgres connection URL for the pgx stdlib driver. User
// and password are escaped, so any character may appear in them.
func (d DatabaseConfig) DSN() string {
	query := url.Values{}
	query.Set("sslmode", "disable")
	query.Set("search_path", d.Schema)

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Database,
		RawQuery: query.Encode(),
	}
	return dsn.String()
}

// Addr returns host:port of the redis server
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// LoadFile exports the variables of an env file into the process
// environment and then loads the configuration.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return Load(), nil
}

func Load() *Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	// Every signed-in account manages unless narrowed to admin
	v.SetDefault("MANAGER_ROLES", "user,admin")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("JWT_ACCESS_EXPIRY", 15)
	v.SetDefault("JWT_REFRESH_EXPIRY", 7)
	v.SetDefault("API_BASE_URL", "http://localhost:3000")
	v.SetDefault("API_USER_VARIANT", "canonical")
	v.SetDefault("API_TIMEOUT_SECONDS", 0)
	v.SetDefault("SESSION_FILE", ".admin-session.json")
	v.SetDefault("PAGE_SIZE", 6)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			ManagerRoles:   splitList(v.GetString("MANAGER_ROLES")),
		},
		Database: DatabaseConfig{
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			Database:      v.GetString("DB_DATABASE"),
			Schema:        v.GetString("DB_SCHEMA"),
			MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  v.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Client: ClientConfig{
			BaseURL:     strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			UserVariant: v.GetString("API_USER_VARIANT"),
			Timeout:     time.Duration(v.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
			SessionFile: v.GetString("SESSION_FILE"),
			PageSize:    v.GetInt("PAGE_SIZE"),
		},
	}
}

// splitList turns "a, b,,c" into [a b c]
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
