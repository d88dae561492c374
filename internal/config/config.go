package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Security SecurityConfig `mapstructure:"security"`
	Email    EmailConfig    `mapstructure:"email"`
	Letter   LetterConfig   `mapstructure:"letter"`
	Razorpay RazorpayConfig `mapstructure:"razorpay"`
	CRM      CRMConfig      `mapstructure:"crm"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	JWT          JWTConfig          `mapstructure:"jwt"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting"`
}

// JWTConfig holds registration token configuration
type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	Issuer   string        `mapstructure:"issuer"`
}

// RateLimitingConfig holds rate limiting configuration
type RateLimitingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	DefaultLimit  int    `mapstructure:"default_limit"`
	DefaultWindow string `mapstructure:"default_window"`
}

// EmailConfig holds email sending configuration
type EmailConfig struct {
	// Provider is the email provider to use: "gmail" or "smtp"
	Provider string `mapstructure:"provider"`
	// AppName is the organisation name shown in emails
	AppName string `mapstructure:"app_name"`
	// Gmail holds Gmail-specific configuration
	Gmail GmailEmailConfig `mapstructure:"gmail"`
	// SMTP holds SMTP-specific configuration
	SMTP SMTPEmailConfig `mapstructure:"smtp"`
}

// GmailEmailConfig holds Gmail API configuration
type GmailEmailConfig struct {
	// CredentialsJSON is the service account credentials JSON content
	CredentialsJSON string `mapstructure:"credentials_json"`
	// ClientID for OAuth2 token-based auth (alternative to service account)
	ClientID string `mapstructure:"client_id"`
	// ClientSecret for OAuth2 token-based auth
	ClientSecret string `mapstructure:"client_secret"`
	// RefreshToken for OAuth2 token-based auth
	RefreshToken string `mapstructure:"refresh_token"`
	// SenderAddress is the "From" email address
	SenderAddress string `mapstructure:"sender_address"`
	// SenderName is the display name for the sender
	SenderName string `mapstructure:"sender_name"`
}

// SMTPEmailConfig holds SMTP transport configuration
type SMTPEmailConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	SenderAddress string `mapstructure:"sender_address"`
	SenderName    string `mapstructure:"sender_name"`
}

// Addr returns the SMTP server address
func (c SMTPEmailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LetterConfig holds offer-letter pipeline configuration
type LetterConfig struct {
	// TemplateDir is the directory holding letter templates
	TemplateDir string `mapstructure:"template_dir"`
	// Renderer selects the PDF rendering strategy: "fpdf", "chrome" or "remote"
	Renderer string `mapstructure:"renderer"`
	// RenderTimeout bounds a single render
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
	// RemoteURL is the base URL of the remote HTML-to-PDF service
	RemoteURL string `mapstructure:"remote_url"`
	// Storage selects the artifact backing: "filesystem" or "database"
	Storage string `mapstructure:"storage"`
	// StorageDir is the directory for filesystem-backed artifacts
	StorageDir string `mapstructure:"storage_dir"`
	// PageSize is the default page size: "A4" or "Letter"
	PageSize string `mapstructure:"page_size"`
}

// RazorpayConfig holds payment gateway configuration
type RazorpayConfig struct {
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	BaseURL       string `mapstructure:"base_url"`
}

// CRMConfig holds the outbound registration webhook configuration
type CRMConfig struct {
	// WebhookURL receives new-registration notifications; empty disables them
	WebhookURL string `mapstructure:"webhook_url"`
	// MaxAttempts is the total number of delivery attempts
	MaxAttempts int `mapstructure:"max_attempts"`
	// RetryBackoff is the base delay; attempt N waits N * RetryBackoff
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fundraiser")

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Bind environment variables
	v.SetEnvPrefix("FUNDRAISER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "fundraiser")
	v.SetDefault("database.user", "fundraiser")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 25)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Security defaults
	v.SetDefault("security.jwt.secret", "")
	v.SetDefault("security.jwt.token_ttl", "168h")
	v.SetDefault("security.jwt.issuer", "fundraiser-api")

	v.SetDefault("security.rate_limiting.enabled", true)
	v.SetDefault("security.rate_limiting.default_limit", 100)
	v.SetDefault("security.rate_limiting.default_window", "1m")

	// Email defaults. Empty-string defaults register the keys so the
	// FUNDRAISER_* environment variables bind without a config file.
	v.SetDefault("email.provider", "gmail")
	v.SetDefault("email.app_name", "Unessa Foundation")
	v.SetDefault("email.gmail.credentials_json", "")
	v.SetDefault("email.gmail.client_id", "")
	v.SetDefault("email.gmail.client_secret", "")
	v.SetDefault("email.gmail.refresh_token", "")
	v.SetDefault("email.gmail.sender_address", "")
	v.SetDefault("email.gmail.sender_name", "")
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.sender_address", "")
	v.SetDefault("email.smtp.sender_name", "")

	// Letter pipeline defaults
	v.SetDefault("letter.template_dir", "templates")
	v.SetDefault("letter.renderer", "fpdf")
	v.SetDefault("letter.render_timeout", "30s")
	v.SetDefault("letter.remote_url", "")
	v.SetDefault("letter.storage", "filesystem")
	v.SetDefault("letter.storage_dir", "public")
	v.SetDefault("letter.page_size", "A4")

	// Razorpay defaults
	v.SetDefault("razorpay.key_id", "")
	v.SetDefault("razorpay.key_secret", "")
	v.SetDefault("razorpay.webhook_secret", "")
	v.SetDefault("razorpay.base_url", "https://api.razorpay.com/v1")

	// CRM webhook defaults
	v.SetDefault("crm.webhook_url", "")
	v.SetDefault("crm.max_attempts", 3)
	v.SetDefault("crm.retry_backoff", "1m")
}
