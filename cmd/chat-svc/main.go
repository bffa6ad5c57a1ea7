package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
	"chatflow/internal/di"
)

func main() {
	log.Println("Starting Chat Service...")

	app, cleanup, err := di.InitializeChatService()
	if err != nil {
		log.Fatalf("Failed to initialize chat service: %v", err)
	}
	defer cleanup()

	if err := app.DB.AutoMigrate(
		&dbmysql.Message{},
		&dbmysql.User{},
		&dbmysql.GroupMember{},
		&dbmysql.Device{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("✅ Database migration completed")

	app.Hub.Run()
	app.Registry.StartSweep(app.Config.Registry.SweepInterval, app.Config.Registry.HeartbeatWindow)
	app.Dispatcher.StartRedeliverySweep(app.Repo, app.Config.Notification.SweepInterval, app.Config.Notification.StaleAfter)

	router := mux.NewRouter()
	router.HandleFunc("/health", health).Methods("GET")
	router.HandleFunc("/ws", app.Hub.ServeWS)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(common.LoggingMiddleware)
	api.Use(common.AuthMiddleware)
	app.Handler.Routes(api)

	addr := net.JoinHostPort(app.Config.Server.Host, app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("✅ Chat service listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down chat service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}

	app.Hub.Shutdown()
	app.Dispatcher.Shutdown()
	app.Registry.Shutdown()
	log.Println("✅ Chat service stopped")
}

func health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("✅ Chat service is healthy"))
}
