package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 3725
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 5432
	defaultDBUser     = "postgres"
	defaultDBPassword = "postgres"
	defaultDBName     = "portfolio"
	defaultDBSSLMode  = "disable"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	SiteURL        string         `yaml:"site_url"`
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	JWTSecret      string         `yaml:"jwt_secret"`
	IPSalt         string         `yaml:"ip_salt"`
	AdminEmails    []string       `yaml:"admin_emails"`
	Mail           MailConfig     `yaml:"mail"`
}

// DatabaseConfig describes the Postgres connection. A full DSN or URL
// wins over the discrete fields.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RedisConfig describes the Redis connection. Leave empty to run without
// Redis; rate limiting then falls back to per-process windows.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
	Enable   *bool  `yaml:"enable"`
}

// MailConfig describes the transactional mail provider.
type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	ResendKey string `yaml:"resend_key"`
}

// Load reads the YAML config at path and fills in defaults. A missing
// file yields a pure-defaults config in development.
func Load(path string) (*AppConfig, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			SSLMode:  defaultDBSSLMode,
		},
		Redis: RedisConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
	}
}

func (c *AppConfig) normalize() {
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = defaultPort
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = defaultEnv
	}
	c.SiteURL = strings.TrimRight(strings.TrimSpace(c.SiteURL), "/")

	for i, e := range c.AdminEmails {
		c.AdminEmails[i] = strings.ToLower(strings.TrimSpace(e))
	}

	if c.Database.Host == "" {
		c.Database.Host = defaultDBHost
	}
	if c.Database.Port == 0 {
		c.Database.Port = defaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = defaultDBSSLMode
	}
	if c.Redis.Host == "" {
		c.Redis.Host = defaultRedisHost
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = defaultRedisPort
	}
}

func (c *AppConfig) validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("env must be development or production, got %q", c.Env)
	}
	if c.Env == "production" && c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required in production")
	}
	if c.Env == "production" && len(c.AdminEmails) == 0 {
		return fmt.Errorf("admin_emails is required in production")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

// IsAdminEmail reports whether email belongs to the allow-list.
func (c *AppConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

// DSN builds the Postgres connection string. An explicit dsn or url in
// the config wins over the discrete fields.
func (c *AppConfig) DSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Name, c.Database.SSLMode)
}

// RedisEnabled reports whether a Redis connection should be attempted.
func (c *AppConfig) RedisEnabled() bool {
	if c.Redis.Enable != nil {
		return *c.Redis.Enable
	}
	return true
}

// RedisURL builds the Redis connection URL.
func (c *AppConfig) RedisURL() string {
	if c.Redis.URL != "" {
		return c.Redis.URL
	}

	scheme := "redis"
	if c.Redis.TLS {
		scheme = "rediss"
	}

	var auth string
	if c.Redis.Username != "" || c.Redis.Password != "" {
		auth = c.Redis.Username + ":" + c.Redis.Password + "@"
	}

	addr := net.JoinHostPort(c.Redis.Host, strconv.Itoa(c.Redis.Port))
	return fmt.Sprintf("%s://%s%s/%d", scheme, auth, addr, c.Redis.DB)
}
