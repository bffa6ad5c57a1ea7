// Package di assembles the service graph. wire_gen.go is generated from
// wire.go; the providers live here so both builds see them.
package di

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"chatflow/internal/bus"
	"chatflow/internal/chat/handler"
	"chatflow/internal/chat/repository"
	"chatflow/internal/chat/service"
	"chatflow/internal/common"
	"chatflow/internal/config"
	"chatflow/internal/convcache"
	"chatflow/internal/dbmongo"
	"chatflow/internal/dbmysql"
	"chatflow/internal/fanout"
	"chatflow/internal/gateway"
	"chatflow/internal/registry"
	"chatflow/internal/ws"
)

// Application is the fully wired chat service.
type Application struct {
	Config     *config.Config
	DB         *gorm.DB
	Mongo      *dbmongo.MongoClient
	Bus        *bus.Bus
	Registry   *registry.Registry
	Repo       repository.MessageRepository
	Devices    gateway.DeviceRepository
	Cache      *convcache.Cache
	Dispatcher *fanout.Dispatcher
	Service    service.ChatService
	Hub        *ws.Hub
	Handler    *handler.ChatHandler
}

func provideMySQL(cnf *config.Config) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cnf)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideMongo(cnf *config.Config) (*dbmongo.MongoClient, func(), error) {
	mc, err := dbmongo.NewMongoConnection(cnf)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mc.Close(ctx)
	}
	return mc, cleanup, nil
}

func provideEventLog(mc *dbmongo.MongoClient, cnf *config.Config) common.DurableLogPublisher {
	eventLog := dbmongo.NewEventLog(mc, cnf.MongoDB.EventsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// index creation is best-effort; inserts still work without it
	if err := eventLog.EnsureIndexes(ctx); err != nil {
		log.Printf("event log index creation failed: %v", err)
	}
	return eventLog
}

func providePushGateway(cnf *config.Config, devices gateway.DeviceRepository) common.NotificationGateway {
	return gateway.NewPushGateway(cnf.Gateway, devices)
}

func provideCache(
	repo repository.MessageRepository,
	roster common.GroupRoster,
	dir common.UserDirectory,
) *convcache.Cache {
	return convcache.New(repo, roster, dir)
}

func provideDispatcher(
	publisher common.DurableLogPublisher,
	pushGateway common.NotificationGateway,
	roster common.GroupRoster,
	dir common.UserDirectory,
	reg *registry.Registry,
	b *bus.Bus,
	cache *convcache.Cache,
	cnf *config.Config,
) *fanout.Dispatcher {
	return fanout.NewDispatcher(publisher, pushGateway, roster, dir, reg, b, cache, fanout.Options{
		Workers:           cnf.Notification.Workers,
		Buffer:            cnf.Notification.ChannelBufferSize,
		PushWhenConnected: cnf.Notification.PushWhenConnected,
		GroupPushTimeout:  cnf.Notification.GroupPushTimeout,
	})
}

func provideChatService(
	repo repository.MessageRepository,
	roster common.GroupRoster,
	dir common.UserDirectory,
	dispatcher *fanout.Dispatcher,
	cnf *config.Config,
) service.ChatService {
	return service.NewChatService(repo, roster, dir, dispatcher, cnf.Notification.DeleteForAllUntil)
}

func provideHub(
	reg *registry.Registry,
	svc service.ChatService,
	cache *convcache.Cache,
	b *bus.Bus,
) *ws.Hub {
	return ws.NewHub(reg, svc, cache, b)
}

func provideHandler(
	svc service.ChatService,
	cache *convcache.Cache,
	devices gateway.DeviceRepository,
) *handler.ChatHandler {
	return handler.NewChatHandler(svc, cache, devices)
}
