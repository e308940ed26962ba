package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-relay/api"
	"chat-relay/auth"
	"chat-relay/gateway"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for HTTP and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	//  Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Routing core
	registry := runtime.NewRegistry()
	rooms := runtime.NewRoomTracker()
	presence := runtime.NewPresence(log, registry, config.SinkTimeout)
	registry.OnChange(presence.RegistryChanged)
	router := runtime.NewRouter(log, registry, rooms, config.SinkTimeout)

	// 4. Persistence & Domain Services
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	userRepository := repositories.NewUserRepository(db)
	groupRepository := repositories.NewGroupRepository(db)

	wordList, err := moderation.LoadWordLists()
	if err != nil {
		return fmt.Errorf("loading word lists failed: %w", err)
	}
	moderator, err := moderation.NewModerator(wordList.Words, config.ModerationCharReplacement)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}

	tokens := auth.NewTokenManager(config.TokenSecret, config.TokenDuration)
	authService := services.NewAuthService(userRepository, tokens)
	groupService := services.NewGroupService(groupRepository, messageRepository)
	chatService := services.NewChatService(log, moderator, messageRepository, groupRepository, router)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervised background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewStatsWorker(log, registry, rooms, config.StatsInterval),
		workers.NewGCWorker(log, db, config.GCInterval),
	)
	go sup.Run(ctx)

	// 7. Transport surfaces
	var origins []string
	if config.AllowedOrigins != "" {
		origins = strings.Split(config.AllowedOrigins, ",")
	}
	gw := gateway.NewGateway(log, gateway.Config{
		SinkCapacity:   config.SinkCapacity,
		PushTimeout:    config.SinkTimeout,
		AllowedOrigins: origins,
	}, registry, rooms, groupService, tokens)

	a := api.NewAPI(log, authService, chatService, groupService)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := api.NewServer(address, a.Routes(tokens, gw.ServeWS))

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	_ = api.Shutdown(log, server, config.ShutdownTimeout)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
