package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/auth"
	"github.com/grvbrk/yt_approval_hub/internal/config"
	"github.com/grvbrk/yt_approval_hub/internal/handlers"
	"github.com/grvbrk/yt_approval_hub/internal/middlewares"
	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/notify"
	"github.com/grvbrk/yt_approval_hub/internal/platform"
	"github.com/grvbrk/yt_approval_hub/internal/store"
	"github.com/grvbrk/yt_approval_hub/internal/workflow"
)

type Application struct {
	Config            *config.Config
	Logger            zerolog.Logger
	RedisClient       *redis.Client
	SessionStore      *sessions.CookieStore
	VideoStore        store.VideoStore
	Registry          *workflow.Registry
	Auth              *auth.DemoAuth
	PlatformAuth      *auth.PlatformAuth
	MiddlewareHandler *middlewares.MiddlewareHandler
	VideoHandler      *handlers.VideoHandler
	UploadHandler     *handlers.UploadHandler
	ViewHandler       *handlers.ViewHandler
}

// NewApplication wires every component. ctx bounds background approval
// uploads; cancel it to abort them on shutdown.
func NewApplication(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Application, error) {
	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	var (
		redisClient *redis.Client
		publisher   notify.Publisher = notify.NopPublisher{}
	)
	if cfg.RedisAddr != "" {
		redisClient, err = store.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		publisher = notify.NewRedisPublisher(redisClient, cfg.RedisChannel)
		logger.Info().Str("addr", cfg.RedisAddr).Str("channel", cfg.RedisChannel).Msg("publishing notifications to redis")
	}

	var seed []models.Video
	if cfg.SeedDemoVideos {
		seed = models.DemoVideos()
	}
	videoStore := store.NewMemoryVideoStore(seed)

	registry := workflow.NewRegistry(workflow.Deps{
		Videos:     videoStore,
		Uploader:   platform.NewSimulatedUploader(cfg.PlatformUploadDelay, cfg.PlatformFailureRate),
		Publisher:  publisher,
		Logger:     logger,
		Demo:       workflow.DemoCredentials{Email: cfg.DemoEmail, Password: cfg.DemoPassword},
		InboxLimit: cfg.NotificationBacklog,
		Context:    ctx,
	})

	app := &Application{
		Config:            cfg,
		Logger:            logger,
		RedisClient:       redisClient,
		SessionStore:      sessionStore,
		VideoStore:        videoStore,
		Registry:          registry,
		Auth:              auth.NewDemoAuth(logger),
		PlatformAuth:      auth.NewPlatformAuth(logger, cfg.PlatformRedirectURL),
		MiddlewareHandler: middlewares.NewMiddlewareHandler(logger, sessionStore, registry, cfg.AllowedOrigins),
		VideoHandler:      handlers.NewVideoHandler(videoStore, logger),
		UploadHandler:     handlers.NewUploadHandler(logger, cfg.MaxUploadBytes),
		ViewHandler:       handlers.NewViewHandler(logger),
	}

	return app, nil
}

// Close waits for outstanding approvals and releases external connections.
func (app *Application) Close() error {
	app.Registry.Wait()

	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			return fmt.Errorf("close redis: %w", err)
		}
	}
	return nil
}

func newSessionStore(cfg *config.Config) (*sessions.CookieStore, error) {
	keys, err := cfg.SessionKeys()
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = [][]byte{securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32)}
	}

	options := &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
	}
	if cfg.IsProduction() {
		options.Secure = true
		options.SameSite = http.SameSiteNoneMode
	} else {
		options.Secure = false
		options.SameSite = http.SameSiteLaxMode
	}

	sessionStore := sessions.NewCookieStore(keys...)
	sessionStore.Options = options
	return sessionStore, nil
}
