//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"gochat/internal/api"
	"gochat/internal/chat"
	"gochat/internal/config"
	"gochat/internal/friend"
	"gochat/internal/gateway"
	"gochat/internal/group"
	"gochat/internal/room"
	"gochat/internal/session"
	"gochat/internal/store"
)

func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(
		NewStore,
		NewTokenManager,
		NewChatConfig,
		wire.Bind(new(store.UserStore), new(store.Store)),
		wire.Bind(new(store.ConversationStore), new(store.Store)),
		wire.Bind(new(store.GroupStore), new(store.Store)),
		wire.Bind(new(store.GroupMessageStore), new(store.Store)),
		wire.Bind(new(store.FriendStore), new(store.Store)),
		wire.FieldsOf(new(*config.Config), "Gateway"),

		session.NewRegistry,
		room.NewManager,
		chat.NewService,
		group.NewService,
		friend.NewService,
		gateway.New,

		api.NewAuthHandler,
		api.NewGroupHandler,
		api.NewMessageHandler,
		api.NewFriendHandler,
		api.NewRouter,

		NewApp,
	)
	return nil, nil
}
