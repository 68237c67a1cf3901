package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-rooms/runtime"
	"chat-rooms/runtime/workers"
	"chat-rooms/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning the error to main keeps defers running on shutdown and makes the
// startup sequence testable.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Core chat state
	registry := runtime.NewRegistry()
	broadcast := runtime.NewBroadcaster(log, registry)
	handlers := runtime.NewHandlers(log, registry, broadcast)
	dispatcher := runtime.NewChatDispatcher(log, handlers)

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background workers
	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewStatsWorker(log, registry, config.StatsInterval))
	go sup.Run(ctx)

	// 5. HTTP & websocket boundary
	srv := server.NewServer(log, server.Config{
		Host:                 config.Host,
		Port:                 config.Port,
		ConnectionBufferSize: config.ConnectionBufferSize,
	}, registry, dispatcher, handlers)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Shutdown did not complete cleanly", "error", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
