// Package di assembles the application graph with Wire.
package di

import (
	"fmt"
	"time"

	"github.com/gorilla/mux"

	"gochat/internal/chat"
	"gochat/internal/common"
	"gochat/internal/config"
	"gochat/internal/store"
)

// App is the fully wired application.
type App struct {
	Router *mux.Router
	Config *config.Config
}

func NewApp(router *mux.Router, cfg *config.Config) *App {
	return &App{Router: router, Config: cfg}
}

// NewStore selects the persistence backend and wraps it with bounded retries.
func NewStore(cfg *config.Config) (store.Store, error) {
	var (
		inner store.Store
		err   error
	)
	switch cfg.Store.Backend {
	case "memory":
		inner = store.NewMemory()
	case "mongo":
		inner, err = store.NewMongo(cfg)
	case "mysql":
		inner, err = store.NewMySQL(cfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store.WithRetry(inner, cfg.Store.MaxRetries, time.Duration(cfg.Store.RetryDelay)*time.Millisecond), nil
}

func NewTokenManager(cfg *config.Config) *common.TokenManager {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// Load rejects an empty secret in production; development falls back
		// to a fixed value so local tokens survive restarts.
		secret = "gochat-dev-secret"
	}
	return common.NewTokenManager(secret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)
}

func NewChatConfig(cfg *config.Config) chat.Config {
	c := chat.DefaultConfig()
	if cfg.Chat.RecallWindow > 0 {
		c.RecallWindow = cfg.Chat.RecallWindow
	}
	return c
}
