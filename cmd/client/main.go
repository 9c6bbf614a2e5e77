package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tasktracker/internal/client"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env")

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://localhost:8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := newConsole(os.Stdin, os.Stdout)
	c := client.New(backendURL,
		client.WithLogger(logger),
		client.WithNoticeHandler(console.notice),
		client.WithRefreshHandler(console.render),
	)

	// An unreachable backend leaves the list empty; the feed retries nothing.
	_ = c.Refresh(ctx)
	go func() {
		if err := c.Listen(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("change feed closed", zap.Error(err))
		}
	}()

	if err := console.run(ctx, c); err != nil {
		logger.Error("console stopped", zap.Error(err))
		os.Exit(1)
	}
}
