package app

import (
	"context"
	"fmt"
	"net/http"

	"bloghub/internal/auth"
	"bloghub/internal/config"
	"bloghub/internal/database"
	handlers "bloghub/internal/handler"
	"bloghub/internal/repository"
	"bloghub/internal/service"
	"bloghub/internal/storage"
	"bloghub/internal/view"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type App struct {
	Cfg      *config.Config
	DB       *database.DB
	Redis    *redis.Client
	Services *service.Service
	Handler  http.Handler
}

// New connects every backing service. Redis and MinIO are optional and are
// skipped when their address is not configured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Cfg: cfg, DB: db}

	var denylist auth.Denylist
	a.Redis, err = database.ConnectRedis(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.Redis != nil {
		denylist = auth.NewRedisDenylist(a.Redis)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, logout will only clear the session cookie")
	}

	var images storage.Storage
	minioClient, err := storage.NewMinIOClient(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("could not initialise MinIO: %w", err)
	}
	if minioClient != nil {
		images = minioClient
	} else {
		log.Info().Msg("MINIO_ENDPOINT not set, cover images are disabled")
	}

	renderer, err := view.New()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	repo := repository.NewRepository(db.DB)
	a.Services = service.NewService(repo, cfg, images, denylist)
	a.Handler = handlers.NewHandlers(a.Services, cfg, renderer, db, images != nil).Routes()

	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("closing redis")
		}
	}
	if a.DB != nil {
		if err := a.DB.CloseDB(); err != nil {
			log.Error().Err(err).Msg("closing database")
		}
	}
}
