package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// Config собирается один раз при старте и передается явно (через app.Container).
// Источники: YAML-файл (CONFIG_PATH, необязателен), затем переменные окружения поверх.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Admin     AdminConfig     `yaml:"admin"`
	Email     EmailConfig     `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	Upload    UploadConfig    `yaml:"upload"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
	Env  string `yaml:"env" env:"SERVER_ENV"`
	// PublicURL - внешний адрес сервиса, используется в ссылках из писем
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`
	// InsecureCookies снимает флаг Secure с cookie (только локальная разработка по http)
	InsecureCookies bool `yaml:"insecure_cookies" env:"INSECURE_COOKIES"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver" env:"DATABASE_DRIVER"` // postgres, mysql
	DSN          string `yaml:"url" env:"DATABASE_URL"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
	// OpTimeoutMs - таймаут одного обращения к БД из сервисов
	OpTimeoutMs int `yaml:"op_timeout_ms" env:"DATABASE_OP_TIMEOUT_MS"`
}

type RedisConfig struct {
	URL            string `yaml:"url" env:"REDIS_URL"`
	UserTTLSeconds int    `yaml:"user_ttl_seconds" env:"REDIS_USER_TTL_SECONDS"`
	OpTimeoutMs    int    `yaml:"op_timeout_ms" env:"REDIS_OP_TIMEOUT_MS"`
}

type JWTConfig struct {
	SecretKey            string `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	RefreshSecretKey     string `yaml:"refresh_secret_key" env:"JWT_REFRESH_SECRET_KEY"`
	EmailSecretKey       string `yaml:"email_secret_key" env:"SECRET_EMAIL"`
	AccessTTLMinutes     int    `yaml:"access_ttl_minutes" env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	RefreshTTLDays       int    `yaml:"refresh_ttl_days" env:"REFRESH_TOKEN_EXPIRE_DAYS"`
	VerificationTTLHours int    `yaml:"verification_ttl_hours" env:"VERIFICATION_TOKEN_EXPIRE_HOURS"`
}

// AdminConfig - учетка для бутстрапа первого администратора
type AdminConfig struct {
	Email    string `yaml:"email" env:"SECRET_ADMIN_EMAIL"`
	Password string `yaml:"password" env:"SECRET_ADMIN"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUsername string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASS"`
	FromEmail    string `yaml:"from_email" env:"SMTP_FROM"`
	FromName     string `yaml:"from_name" env:"SMTP_FROM_NAME"`
}

type StorageConfig struct {
	Type       string `yaml:"type" env:"STORAGE_TYPE"`           // local, s3, minio
	BasePath   string `yaml:"base_path" env:"STORAGE_BASE_PATH"` // local
	BaseURL    string `yaml:"base_url" env:"STORAGE_BASE_URL"`   // публичный префикс URL
	Bucket     string `yaml:"bucket" env:"STORAGE_BUCKET"`
	Region     string `yaml:"region" env:"STORAGE_REGION"`
	AccessKey  string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
	SecretKey  string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
	Endpoint   string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	UseSSL     bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL"`
	PublicRead bool   `yaml:"public_read" env:"STORAGE_PUBLIC_READ"`
}

type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size" env:"UPLOAD_MAX_SIZE"`
	AllowedTypes []string `yaml:"allowed_types" env:"UPLOAD_ALLOWED_TYPES" envSeparator:","`
	ImageQuality int      `yaml:"image_quality" env:"UPLOAD_IMAGE_QUALITY"`
	AvatarSize   int      `yaml:"avatar_size" env:"UPLOAD_AVATAR_SIZE"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins" env:"CORS_ORIGINS" envSeparator:","`
}

type RateLimitConfig struct {
	Requests      int `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`
	WindowSeconds int `yaml:"window_seconds" env:"RATE_LIMIT_WINDOW_SECONDS"`
}

// LoadConfig читает YAML (если файл есть) и накладывает переменные окружения.
// Ошибка означает невалидную конфигурацию и должна останавливать запуск.
func LoadConfig() (*Config, error) {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if err := loadFile(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Env == "" {
		c.Server.Env = "production"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.OpTimeoutMs == 0 {
		c.Database.OpTimeoutMs = 5000
	}
	if c.Redis.UserTTLSeconds == 0 {
		c.Redis.UserTTLSeconds = 3600
	}
	if c.Redis.OpTimeoutMs == 0 {
		c.Redis.OpTimeoutMs = 200
	}
	if c.JWT.AccessTTLMinutes == 0 {
		c.JWT.AccessTTLMinutes = 30
	}
	if c.JWT.RefreshTTLDays == 0 {
		c.JWT.RefreshTTLDays = 7
	}
	if c.JWT.VerificationTTLHours == 0 {
		c.JWT.VerificationTTLHours = 24
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Contacts"
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.SMTPUsername
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.BasePath == "" {
		c.Storage.BasePath = "./uploads"
	}
	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = 5 * 1024 * 1024 // 5MB
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if c.Upload.ImageQuality == 0 {
		c.Upload.ImageQuality = 85
	}
	if c.Upload.AvatarSize == 0 {
		c.Upload.AvatarSize = 256
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 5
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	c.Server.PublicURL = strings.TrimRight(c.Server.PublicURL, "/")
}

// Validate проверяет обязательные параметры. Отсутствие любого секрета подписи - фатально.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.DSN == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWT.SecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if c.JWT.RefreshSecretKey == "" {
		missing = append(missing, "JWT_REFRESH_SECRET_KEY")
	}
	if c.JWT.EmailSecretKey == "" {
		missing = append(missing, "SECRET_EMAIL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.AccessTTLMinutes) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLDays) * 24 * time.Hour
}

func (c *Config) VerificationTTL() time.Duration {
	return time.Duration(c.JWT.VerificationTTLHours) * time.Hour
}

func (c *Config) UserCacheTTL() time.Duration {
	return time.Duration(c.Redis.UserTTLSeconds) * time.Second
}

func (c *Config) RedisOpTimeout() time.Duration {
	return time.Duration(c.Redis.OpTimeoutMs) * time.Millisecond
}

func (c *Config) DatabaseOpTimeout() time.Duration {
	return time.Duration(c.Database.OpTimeoutMs) * time.Millisecond
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
