package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig        `yaml:"server"`
	Logger    LoggerConfig        `yaml:"logger"`
	Postgres  PostgresConfig      `yaml:"postgres"`
	JWT       JWTConfig           `yaml:"jwt"`
	Redis     RedisConfig         `yaml:"redis"`
	Kafka     KafkaConfig         `yaml:"kafka"`
	Elastic   ElasticsearchConfig `yaml:"elastic"`
	SMTP      SMTPConfig          `yaml:"smtp"`
	Storage   StorageConfig       `yaml:"storage"`
	Stripe    StripeConfig        `yaml:"stripe"`
	Telemetry TelemetryConfig     `yaml:"telemetry"`
	CORS      CORSConfig          `yaml:"cors"`
	Admin     AdminConfig         `yaml:"admin"`
}

type ServerConfig struct {
	AppEnv          string `yaml:"app_env"`
	AppURL          string `yaml:"app_url"`
	HTTPPort        string `yaml:"http_port"`
	GRPCPort        string `yaml:"grpc_port"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level             string `yaml:"level"`
	Encoding          string `yaml:"encoding"`
	DisableCaller     bool   `yaml:"disable_caller"`
	DisableStacktrace bool   `yaml:"disable_stacktrace"`
}

type PostgresConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"db_name"`
	SSLMode         string `yaml:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime int    `yaml:"conn_max_idle_time"`
	AutoMigrate     bool   `yaml:"auto_migrate"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
	// TTL in minutes.
	TTL int `yaml:"ttl"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type StorageConfig struct {
	Dir       string `yaml:"dir"`
	PublicURL string `yaml:"public_url"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	Currency      string `yaml:"currency"`
}

type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AdminConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func (s ServerConfig) IsDevelopment() bool {
	return s.AppEnv == "development" || s.AppEnv == "dev"
}

func (t JWTConfig) TokenTTL() time.Duration {
	return time.Duration(t.TTL) * time.Minute
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:          "dev",
			AppURL:          "http://localhost:8080",
			HTTPPort:        ":8080",
			GRPCPort:        ":8082",
			ShutdownTimeout: 15,
		},
		Logger: LoggerConfig{
			Level:             "debug",
			Encoding:          "console",
			DisableStacktrace: true,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "omnipos",
			Password:        "omnipos",
			DBName:          "omnipos_storefront",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
			AutoMigrate:     true,
		},
		JWT: JWTConfig{
			SecretKey: "your-secret-key-change-this-in-prod",
			TTL:       60 * 24,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "orders.events",
			GroupID: "storefront-notifications",
		},
		Elastic: ElasticsearchConfig{
			Addresses: []string{"http://localhost:9200"},
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "shop@example.com",
		},
		Storage: StorageConfig{
			Dir:       "storage",
			PublicURL: "http://localhost:8080/storage",
		},
		Stripe: StripeConfig{
			Currency: "eur",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "omnipos-storefront",
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRatio: 1,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load starts from Default, overlays the YAML file at path when path is not
// empty, then applies environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

// LoadEnv returns the defaults overridden by the environment.
func LoadEnv() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	s := &cfg.Server
	s.AppEnv = getEnv("APP_ENV", s.AppEnv)
	s.AppURL = getEnv("APP_URL", s.AppURL)
	s.HTTPPort = getEnv("HTTP_PORT", s.HTTPPort)
	s.GRPCPort = getEnv("GRPC_PORT", s.GRPCPort)
	s.ShutdownTimeout = getEnvInt("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)

	l := &cfg.Logger
	l.Level = getEnv("LOGGER_LEVEL", l.Level)
	l.Encoding = getEnv("LOGGER_ENCODING", l.Encoding)
	l.DisableCaller = getEnvBool("LOGGER_DISABLE_CALLER", l.DisableCaller)
	l.DisableStacktrace = getEnvBool("LOGGER_DISABLE_STACKTRACE", l.DisableStacktrace)

	p := &cfg.Postgres
	p.Host = getEnv("POSTGRES_HOST", p.Host)
	p.Port = getEnv("POSTGRES_PORT", p.Port)
	p.User = getEnv("POSTGRES_USER", p.User)
	p.Password = getEnv("POSTGRES_PASSWORD", p.Password)
	p.DBName = getEnv("POSTGRES_DB", p.DBName)
	p.SSLMode = getEnv("POSTGRES_SSLMODE", p.SSLMode)
	p.MaxOpenConns = getEnvInt("POSTGRES_MAX_OPEN_CONNS", p.MaxOpenConns)
	p.MaxIdleConns = getEnvInt("POSTGRES_MAX_IDLE_CONNS", p.MaxIdleConns)
	p.ConnMaxLifetime = getEnvInt("POSTGRES_CONN_MAX_LIFETIME", p.ConnMaxLifetime)
	p.ConnMaxIdleTime = getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", p.ConnMaxIdleTime)
	p.AutoMigrate = getEnvBool("DB_AUTO_MIGRATE", p.AutoMigrate)

	cfg.JWT.SecretKey = getEnv("JWT_SECRET_KEY", cfg.JWT.SecretKey)
	cfg.JWT.TTL = getEnvInt("JWT_TTL_MINUTES", cfg.JWT.TTL)

	r := &cfg.Redis
	r.Enabled = getEnvBool("REDIS_ENABLED", r.Enabled)
	r.Addr = getEnv("REDIS_ADDR", r.Addr)
	r.Password = getEnv("REDIS_PASSWORD", r.Password)
	r.DB = getEnvInt("REDIS_DB", r.DB)

	k := &cfg.Kafka
	k.Enabled = getEnvBool("KAFKA_ENABLED", k.Enabled)
	k.Brokers = getEnvSlice("KAFKA_BROKERS", k.Brokers)
	k.Topic = getEnv("KAFKA_TOPIC_ORDERS", k.Topic)
	k.GroupID = getEnv("KAFKA_GROUP_NOTIFICATIONS", k.GroupID)

	e := &cfg.Elastic
	e.Enabled = getEnvBool("ELASTICSEARCH_ENABLED", e.Enabled)
	e.Addresses = getEnvSlice("ELASTICSEARCH_ADDRESSES", e.Addresses)
	e.Username = getEnv("ELASTICSEARCH_USERNAME", e.Username)
	e.Password = getEnv("ELASTICSEARCH_PASSWORD", e.Password)

	m := &cfg.SMTP
	m.Host = getEnv("SMTP_HOST", m.Host)
	m.Port = getEnvInt("SMTP_PORT", m.Port)
	m.Username = getEnv("SMTP_USERNAME", m.Username)
	m.Password = getEnv("SMTP_PASSWORD", m.Password)
	m.From = getEnv("SMTP_FROM", m.From)

	cfg.Storage.Dir = getEnv("STORAGE_DIR", cfg.Storage.Dir)
	cfg.Storage.PublicURL = getEnv("STORAGE_PUBLIC_URL", cfg.Storage.PublicURL)

	cfg.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", cfg.Stripe.SecretKey)
	cfg.Stripe.WebhookSecret = getEnv("STRIPE_WEBHOOK_SECRET", cfg.Stripe.WebhookSecret)
	cfg.Stripe.Currency = getEnv("STRIPE_CURRENCY", cfg.Stripe.Currency)

	t := &cfg.Telemetry
	t.Enabled = getEnvBool("OTEL_ENABLED", t.Enabled)
	t.ServiceName = getEnv("OTEL_SERVICE_NAME", t.ServiceName)
	t.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", t.Endpoint)
	t.Insecure = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", t.Insecure)
	t.SampleRatio = getEnvFloat("OTEL_SAMPLE_RATIO", t.SampleRatio)

	cfg.CORS.AllowedOrigins = getEnvSlice("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)

	cfg.Admin.Name = getEnv("ADMIN_NAME", cfg.Admin.Name)
	cfg.Admin.Email = getEnv("ADMIN_EMAIL", cfg.Admin.Email)
	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", cfg.Admin.Password)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
