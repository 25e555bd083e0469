package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "development", cfg.Server.Environment)
	require.Equal(t, "memory", cfg.Store.Backend)
	require.Equal(t, 3, cfg.Store.MaxRetries)
	require.Equal(t, 2*time.Minute, cfg.Chat.RecallWindow)
	require.Equal(t, 64, cfg.Gateway.SendQueueSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("CHAT_RECALL_WINDOW_SECONDS", "300")
	t.Setenv("GATEWAY_INTENT_RATE", "5.5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "mongo", cfg.Store.Backend)
	require.Equal(t, 5*time.Minute, cfg.Chat.RecallWindow)
	require.Equal(t, 5.5, cfg.Gateway.IntentRate)
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "super-secret")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "super-secret", cfg.Auth.JWTSecret)
}

func TestDSN(t *testing.T) {
	cfg := &Config{MySQL: MySQLConfig{
		Host: "db", Port: "3306", Username: "gochat", Password: "pw", DatabaseName: "gochat",
	}}
	require.Equal(t, "gochat:pw@tcp(db:3306)/gochat?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}
