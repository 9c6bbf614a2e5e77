package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"tasktracker/internal/adapter/relay"
	"tasktracker/internal/adapter/ws"
	"tasktracker/internal/app/service"
	"tasktracker/internal/config"
	"tasktracker/internal/core/ports"
	"tasktracker/pkg/translator"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	dbadapter "tasktracker/internal/adapter/db"
	httpadapter "tasktracker/internal/adapter/http"
	"tasktracker/internal/adapter/http/handlers"
	httpmiddleware "tasktracker/internal/adapter/http/middleware"
	memadapter "tasktracker/internal/adapter/memory"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.LoadConfig()

	if err := translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	}); err != nil {
		logger.Warn("translations unavailable, error messages fall back to ids", zap.Error(err))
	}

	ctx := context.Background()

	var db *sqlx.DB
	var repository ports.TaskRepository
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("using in-memory store, tasks are lost on restart")
		repository = memadapter.NewTaskRepository()
	default:
		db, err = dbadapter.ConnectDB(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to connect to mysql", zap.Error(err))
		}
		if err := dbadapter.Migrate(ctx, db); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
		repository = dbadapter.NewTaskRepository(db)
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	hub := ws.NewHub(logger, cfg.CorsAllowedOrigins)
	go hub.Run(hubCtx)

	notifier, closeRelay, err := buildRelay(cfg, hub, logger)
	if err != nil {
		logger.Fatal("failed to set up notification relay", zap.String("relay", cfg.NotifyRelay), zap.Error(err))
	}
	if err := notifier.Start(ctx); err != nil {
		logger.Fatal("failed to start notification relay", zap.String("relay", notifier.Name()), zap.Error(err))
	}

	taskService := service.NewTaskService(repository, notifier)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Strings("trusted_proxies", cfg.TrustedProxies), zap.Error(err))
	}
	r.Use(
		gin.Recovery(),
		httpmiddleware.GinZapMiddleware(logger),
		httpmiddleware.CORSMiddleware(cfg.CorsAllowedOrigins),
	)

	var pinger handlers.Pinger
	if db != nil {
		pinger = db
	}
	healthHandler := handlers.NewHealthHandler(pinger, hub, notifier)
	taskHandler := handlers.NewTaskHandler(taskService)
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler, hub.ServeWS)

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("addr", server.Addr),
			zap.String("store", cfg.StoreDriver),
			zap.String("relay", notifier.Name()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"tasktracker": func(ctx context.Context) error {
			logger.Info("graceful shutdown initiated")

			// Stop accepting requests first so no mutation is left without
			// its notification path.
			var errs []error
			if err := server.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
			if err := notifier.Stop(); err != nil {
				errs = append(errs, err)
			}
			stopHub()
			hub.Wait()
			if err := closeRelay(); err != nil {
				errs = append(errs, err)
			}
			if db != nil {
				if err := db.Close(); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	})

	exitCode := <-wait
	logger.Info("application exited", zap.Int("code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}

// buildRelay wires the configured relay in front of the hub. The returned
// closer releases the broker connection once the relay is stopped.
func buildRelay(cfg *config.Config, hub *ws.Hub, logger *zap.Logger) (relay.Relay, func() error, error) {
	switch cfg.NotifyRelay {
	case config.RelayRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return relay.NewRedis(client, cfg.RedisChannel, hub, logger), client.Close, nil
	case config.RelayNATS:
		conn, err := relay.ConnectNATS(cfg.NatsURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return relay.NewNATS(conn, cfg.NatsSubject, hub, logger), func() error { conn.Close(); return nil }, nil
	case config.RelayLocal, "":
		return relay.NewLocal(hub), func() error { return nil }, nil
	default:
		return nil, nil, errors.New("unknown relay " + cfg.NotifyRelay)
	}
}
