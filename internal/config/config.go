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
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Gateway GatewayConfig
	Sheets  SheetsConfig
	Events  EventsConfig
	Chat    ChatConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GatewayConfig holds settings for the OpenAI-compatible AI gateway used by chat.
type GatewayConfig struct {
	URL         string `mapstructure:"url"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// SheetsConfig holds Google Sheets service-account settings.
// The client is disabled when ClientEmail or PrivateKey is empty.
type SheetsConfig struct {
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	ClientEmail   string `mapstructure:"client_email"`
	PrivateKey    string `mapstructure:"private_key"`
	TokenURI      string `mapstructure:"token_uri"`
	BaseURL       string `mapstructure:"base_url"`
	Range         string `mapstructure:"range"`
	TimeoutSecs   int    `mapstructure:"timeout_secs"`
}

// Enabled reports whether service-account credentials are present.
func (s *SheetsConfig) Enabled() bool {
	return s.ClientEmail != "" && s.PrivateKey != "" && s.SpreadsheetID != ""
}

// EventsConfig holds event stream settings. An empty Brokers list disables publishing.
type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// ChatConfig holds chat session settings.
type ChatConfig struct {
	MaxSessions    int `mapstructure:"max_sessions"`
	HistoryLimit   int `mapstructure:"history_limit"`
	MaxMessageSize int `mapstructure:"max_message_size"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	Environment   string        `mapstructure:"environment"`
	MaxUploadMB   int64         `mapstructure:"max_upload_mb"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
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

// S3Config holds object storage settings for archived imports.
// Archiving is off unless Enabled is set.
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the UDYAMI_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("UDYAMI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.shutdown_grace", "10s")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "udyami")
	v.SetDefault("db.password", "udyami_secret")
	v.SetDefault("db.name", "udyami_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "udyami-imports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "imports")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000")

	// Gateway defaults
	v.SetDefault("gateway.url", "https://ai.gateway.lovable.dev/v1/chat/completions")
	v.SetDefault("gateway.api_key", "")
	v.SetDefault("gateway.model", "google/gemini-3-flash-preview")
	v.SetDefault("gateway.timeout_secs", 300)

	// Sheets defaults
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.client_email", "")
	v.SetDefault("sheets.private_key", "")
	v.SetDefault("sheets.token_uri", "https://oauth2.googleapis.com/token")
	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com/v4/spreadsheets")
	v.SetDefault("sheets.range", "A1:Z1000")
	v.SetDefault("sheets.timeout_secs", 30)

	// Events defaults
	v.SetDefault("events.brokers", "")
	v.SetDefault("events.topic", "udyami.documents")

	// Chat defaults
	v.SetDefault("chat.max_sessions", 1000)
	v.SetDefault("chat.history_limit", 40)
	v.SetDefault("chat.max_message_size", 32*1024)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":            "UDYAMI_SERVER_PORT",
		"server.read_timeout":    "UDYAMI_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "UDYAMI_SERVER_WRITE_TIMEOUT",
		"server.environment":     "UDYAMI_SERVER_ENVIRONMENT",
		"server.max_upload_mb":   "UDYAMI_SERVER_MAX_UPLOAD_MB",
		"server.shutdown_grace":  "UDYAMI_SERVER_SHUTDOWN_GRACE",
		"db.host":                "UDYAMI_DB_HOST",
		"db.port":                "UDYAMI_DB_PORT",
		"db.user":                "UDYAMI_DB_USER",
		"db.password":            "UDYAMI_DB_PASSWORD",
		"db.name":                "UDYAMI_DB_NAME",
		"db.sslmode":             "UDYAMI_DB_SSLMODE",
		"db.max_open":            "UDYAMI_DB_MAX_OPEN",
		"db.max_idle":            "UDYAMI_DB_MAX_IDLE",
		"s3.enabled":             "UDYAMI_S3_ENABLED",
		"s3.region":              "UDYAMI_S3_REGION",
		"s3.bucket":              "UDYAMI_S3_BUCKET",
		"s3.endpoint":            "UDYAMI_S3_ENDPOINT",
		"s3.access_key":          "UDYAMI_S3_ACCESS_KEY",
		"s3.secret_key":          "UDYAMI_S3_SECRET_KEY",
		"s3.prefix":              "UDYAMI_S3_PREFIX",
		"log.level":              "UDYAMI_LOG_LEVEL",
		"log.format":             "UDYAMI_LOG_FORMAT",
		"cors.allowed_origins":   "UDYAMI_CORS_ALLOWED_ORIGINS",
		"gateway.url":            "UDYAMI_GATEWAY_URL",
		"gateway.api_key":        "UDYAMI_GATEWAY_API_KEY",
		"gateway.model":          "UDYAMI_GATEWAY_MODEL",
		"gateway.timeout_secs":   "UDYAMI_GATEWAY_TIMEOUT_SECS",
		"sheets.spreadsheet_id":  "UDYAMI_SHEETS_SPREADSHEET_ID",
		"sheets.client_email":    "UDYAMI_SHEETS_CLIENT_EMAIL",
		"sheets.private_key":     "UDYAMI_SHEETS_PRIVATE_KEY",
		"sheets.token_uri":       "UDYAMI_SHEETS_TOKEN_URI",
		"sheets.base_url":        "UDYAMI_SHEETS_BASE_URL",
		"sheets.range":           "UDYAMI_SHEETS_RANGE",
		"sheets.timeout_secs":    "UDYAMI_SHEETS_TIMEOUT_SECS",
		"events.brokers":         "UDYAMI_EVENTS_BROKERS",
		"events.topic":           "UDYAMI_EVENTS_TOPIC",
		"chat.max_sessions":      "UDYAMI_CHAT_MAX_SESSIONS",
		"chat.history_limit":     "UDYAMI_CHAT_HISTORY_LIMIT",
		"chat.max_message_size":  "UDYAMI_CHAT_MAX_MESSAGE_SIZE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if UDYAMI_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("UDYAMI_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:          serverPort,
		ReadTimeout:   v.GetDuration("server.read_timeout"),
		WriteTimeout:  v.GetDuration("server.write_timeout"),
		Environment:   v.GetString("server.environment"),
		MaxUploadMB:   v.GetInt64("server.max_upload_mb"),
		ShutdownGrace: v.GetDuration("server.shutdown_grace"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Enabled:   v.GetBool("s3.enabled"),
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Gateway = GatewayConfig{
		URL:         v.GetString("gateway.url"),
		APIKey:      v.GetString("gateway.api_key"),
		Model:       v.GetString("gateway.model"),
		TimeoutSecs: v.GetInt("gateway.timeout_secs"),
	}
	cfg.Sheets = SheetsConfig{
		SpreadsheetID: v.GetString("sheets.spreadsheet_id"),
		ClientEmail:   v.GetString("sheets.client_email"),
		// Private keys passed through env usually carry literal \n sequences.
		PrivateKey:  strings.ReplaceAll(v.GetString("sheets.private_key"), `\n`, "\n"),
		TokenURI:    v.GetString("sheets.token_uri"),
		BaseURL:     v.GetString("sheets.base_url"),
		Range:       v.GetString("sheets.range"),
		TimeoutSecs: v.GetInt("sheets.timeout_secs"),
	}
	cfg.Events = EventsConfig{
		Brokers: splitList(v.GetString("events.brokers")),
		Topic:   v.GetString("events.topic"),
	}
	cfg.Chat = ChatConfig{
		MaxSessions:    v.GetInt("chat.max_sessions"),
		HistoryLimit:   v.GetInt("chat.history_limit"),
		MaxMessageSize: v.GetInt("chat.max_message_size"),
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
