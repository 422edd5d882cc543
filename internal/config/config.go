package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Extractor ExtractorConfig
	S3        S3Config
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds storage backend settings. Backend selects the storage
// family ("sqlite" or "postgres"); the sqlite fields cover the embedded
// default, the remaining fields the networked relational store.
type DBConfig struct {
	Backend  string `mapstructure:"backend"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// ExtractorConfig holds document-AI extraction service settings.
type ExtractorConfig struct {
	Provider      string  `mapstructure:"provider"`
	Endpoint      string  `mapstructure:"endpoint"`
	APIKey        string  `mapstructure:"api_key"`
	TimeoutSecs   int     `mapstructure:"timeout_secs"`
	MinDocConf    float64 `mapstructure:"min_doc_confidence"`
	MaxFileSizeMB int64   `mapstructure:"max_file_size_mb"`
}

// S3Config holds object storage settings for uploaded documents. An empty
// bucket disables object storage (a no-op store is used instead).
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the INVPARSER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVPARSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults: embedded file-backed store, runnable with zero setup
	v.SetDefault("db.backend", "sqlite")
	v.SetDefault("db.path", "./invoices.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invparser")
	v.SetDefault("db.password", "invparser_secret")
	v.SetDefault("db.name", "invoices_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Extractor defaults
	v.SetDefault("extractor.provider", "stub")
	v.SetDefault("extractor.endpoint", "")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.timeout_secs", 120)
	v.SetDefault("extractor.min_doc_confidence", 0.9)
	v.SetDefault("extractor.max_file_size_mb", 50)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "INVPARSER_SERVER_PORT",
		"server.read_timeout":          "INVPARSER_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "INVPARSER_SERVER_WRITE_TIMEOUT",
		"server.environment":           "INVPARSER_SERVER_ENVIRONMENT",
		"db.backend":                   "INVPARSER_DB_BACKEND",
		"db.path":                      "INVPARSER_DB_PATH",
		"db.host":                      "INVPARSER_DB_HOST",
		"db.port":                      "INVPARSER_DB_PORT",
		"db.user":                      "INVPARSER_DB_USER",
		"db.password":                  "INVPARSER_DB_PASSWORD",
		"db.name":                      "INVPARSER_DB_NAME",
		"db.sslmode":                   "INVPARSER_DB_SSLMODE",
		"db.max_open":                  "INVPARSER_DB_MAX_OPEN",
		"db.max_idle":                  "INVPARSER_DB_MAX_IDLE",
		"extractor.provider":           "INVPARSER_EXTRACTOR_PROVIDER",
		"extractor.endpoint":           "INVPARSER_EXTRACTOR_ENDPOINT",
		"extractor.api_key":            "INVPARSER_EXTRACTOR_API_KEY",
		"extractor.timeout_secs":       "INVPARSER_EXTRACTOR_TIMEOUT_SECS",
		"extractor.min_doc_confidence": "INVPARSER_EXTRACTOR_MIN_DOC_CONFIDENCE",
		"extractor.max_file_size_mb":   "INVPARSER_EXTRACTOR_MAX_FILE_SIZE_MB",
		"s3.region":                    "INVPARSER_S3_REGION",
		"s3.bucket":                    "INVPARSER_S3_BUCKET",
		"s3.endpoint":                  "INVPARSER_S3_ENDPOINT",
		"s3.access_key":                "INVPARSER_S3_ACCESS_KEY",
		"s3.secret_key":                "INVPARSER_S3_SECRET_KEY",
		"log.level":                    "INVPARSER_LOG_LEVEL",
		"log.format":                   "INVPARSER_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVPARSER_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVPARSER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Backend:  v.GetString("db.backend"),
		Path:     v.GetString("db.path"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Extractor = ExtractorConfig{
		Provider:      v.GetString("extractor.provider"),
		Endpoint:      v.GetString("extractor.endpoint"),
		APIKey:        v.GetString("extractor.api_key"),
		TimeoutSecs:   v.GetInt("extractor.timeout_secs"),
		MinDocConf:    v.GetFloat64("extractor.min_doc_confidence"),
		MaxFileSizeMB: v.GetInt64("extractor.max_file_size_mb"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
