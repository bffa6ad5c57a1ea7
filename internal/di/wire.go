//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"chatflow/internal/bus"
	"chatflow/internal/chat/repository"
	"chatflow/internal/config"
	"chatflow/internal/directory"
	"chatflow/internal/gateway"
	"chatflow/internal/registry"
)

// InitializeChatService builds the full application graph. wire generates
// the real body in wire_gen.go.
func InitializeChatService() (*Application, func(), error) {
	wire.Build(
		config.Load,
		provideMySQL,
		provideMongo,
		bus.New,
		registry.New,
		repository.NewMessageRepository,
		directory.NewUserDirectory,
		directory.NewGroupRoster,
		gateway.NewDeviceRepository,
		provideEventLog,
		providePushGateway,
		provideCache,
		provideDispatcher,
		provideChatService,
		provideHub,
		provideHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil, nil
}
