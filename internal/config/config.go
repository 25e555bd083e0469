package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Store   StoreConfig   `json:"store"`
	Mongo   MongoConfig   `json:"mongo"`
	MySQL   MySQLConfig   `json:"mysql"`
	Auth    AuthConfig    `json:"auth"`
	Gateway GatewayConfig `json:"gateway"`
	Chat    ChatConfig    `json:"chat"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// StoreConfig selects the persistence backend and its retry behaviour
type StoreConfig struct {
	Backend    string `json:"backend"` // memory, mongo, mysql
	MaxRetries int    `json:"max_retries"`
	RetryDelay int    `json:"retry_delay"` // milliseconds
}

type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

type MySQLConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type AuthConfig struct {
	JWTSecret string `json:"-"`
	TokenTTL  int    `json:"token_ttl"` // hours
}

// GatewayConfig tunes the websocket gateway
type GatewayConfig struct {
	SendQueueSize  int     `json:"send_queue_size"` // per-connection outbound buffer
	IntentRate     float64 `json:"intent_rate"`     // intents per second per connection
	IntentBurst    int     `json:"intent_burst"`
	PingInterval   int     `json:"ping_interval"`    // seconds
	WriteDeadline  int     `json:"write_deadline"`   // seconds
	MaxMessageSize int64   `json:"max_message_size"` // bytes
}

// ChatConfig holds the message state machine policies
type ChatConfig struct {
	RecallWindow time.Duration `json:"recall_window"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "memory"),
			MaxRetries: getEnvInt("STORE_MAX_RETRIES", 3),
			RetryDelay: getEnvInt("STORE_RETRY_DELAY_MS", 200),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "gochat"),
		},
		MySQL: MySQLConfig{
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USER", "gochat"),
			Password:     getEnv("MYSQL_PASSWORD", ""),
			DatabaseName: getEnv("MYSQL_DATABASE", "gochat"),
			MaxOpenConns: getEnvInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvInt("TOKEN_TTL_HOURS", 24),
		},
		Gateway: GatewayConfig{
			SendQueueSize:  getEnvInt("GATEWAY_SEND_QUEUE", 64),
			IntentRate:     getEnvFloat("GATEWAY_INTENT_RATE", 20),
			IntentBurst:    getEnvInt("GATEWAY_INTENT_BURST", 40),
			PingInterval:   getEnvInt("GATEWAY_PING_INTERVAL", 30),
			WriteDeadline:  getEnvInt("GATEWAY_WRITE_DEADLINE", 10),
			MaxMessageSize: int64(getEnvInt("GATEWAY_MAX_MESSAGE_SIZE", 65536)),
		},
		Chat: ChatConfig{
			RecallWindow: time.Duration(getEnvInt("CHAT_RECALL_WINDOW_SECONDS", 120)) * time.Second,
		},
	}

	if cfg.Auth.JWTSecret == "" && cfg.Server.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// DSN builds the MySQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.MySQL.Username,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DatabaseName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
