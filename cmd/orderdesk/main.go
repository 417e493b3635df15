package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mataam/internal/api"
	"mataam/internal/cart"
	"mataam/internal/config"
	"mataam/internal/orderfeed"
	"mataam/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real env vars take precedence
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("tenant", cfg.API.Tenant).Msg("starting order desk")

	// Decode the login token into a session
	sess, err := session.New(cfg.API.Token)
	if err != nil {
		return fmt.Errorf("failed to decode session token: %w", err)
	}
	logger.Info().
		Str("role", string(sess.Role())).
		Int64("user_id", sess.UserID()).
		Msg("session established")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the API client
	client := api.NewClient(cfg.API, sess, logger)

	notifier := cart.LogNotifier{Logger: logger}

	// Initialize the order feed and load the first page
	feed := orderfeed.New(client, sess, notifier, cfg.Feed.PageSize, logger)
	if err := feed.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	logger.Info().
		Int("orders", feed.TotalItems()).
		Msg("order list loaded")

	// Run the live push connection
	socket := orderfeed.NewSocket(cfg.Feed, cfg.API.Tenant, feed, func(state orderfeed.ConnState) {
		logger.Info().Stringer("state", state).Msg("feed connection state changed")
	}, logger)

	socketDone := make(chan struct{})
	go func() {
		socket.Run(ctx)
		close(socketDone)
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or the socket gives up for good
	select {
	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received")
		cancel()
		<-socketDone

	case <-socketDone:
		if socket.State() == orderfeed.ConnGaveUp {
			return fmt.Errorf("order feed gave up reconnecting")
		}
	}

	logger.Info().Msg("order desk stopped")
	return nil
}
