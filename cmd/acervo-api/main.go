package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/acervo-api/api/swagger"
	"github.com/noah-isme/acervo-api/internal/dto"
	"github.com/noah-isme/acervo-api/internal/handler"
	"github.com/noah-isme/acervo-api/internal/repository"
	"github.com/noah-isme/acervo-api/internal/router"
	"github.com/noah-isme/acervo-api/internal/service"
	"github.com/noah-isme/acervo-api/pkg/cache"
	"github.com/noah-isme/acervo-api/pkg/config"
	"github.com/noah-isme/acervo-api/pkg/database"
	"github.com/noah-isme/acervo-api/pkg/logger"
)

// @title Acervo API
// @version 1.0.0
// @description Catalog of users, authors and materials with ownership-based authorization
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	var metrics *service.MetricsService
	if cfg.Features.Metrics {
		metrics = service.NewMetricsService()
		if err := metrics.RegisterDB(db.DB, cfg.Database.Name); err != nil {
			logr.Warn("failed to register database metrics", zap.Error(err))
		}
	}

	validate := dto.NewValidator()
	credentials := service.NewCredentialService(0)

	userRepo := repository.NewUserRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	materialRepo := repository.NewMaterialRepository(db)

	users := service.NewUserService(userRepo, credentials, validate, logr)
	authors := service.NewAuthorService(authorRepo, validate, logr)

	var materials *service.MaterialService
	if cfg.BookLookup.Enabled {
		lookup := service.NewBookMetadataService(service.BookMetadataConfig{
			BaseURL: cfg.BookLookup.BaseURL,
			Timeout: cfg.BookLookup.Timeout,
		}, metrics, logr)
		materials = service.NewMaterialService(materialRepo, authors, lookup, validate, logr)
	} else {
		materials = service.NewMaterialService(materialRepo, authors, nil, validate, logr)
	}

	authConfig := service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	}
	var auth *service.AuthService
	if throttle := newLoginThrottle(cfg, metrics, logr); throttle != nil {
		auth = service.NewAuthService(users, credentials, throttle, validate, logr, authConfig)
	} else {
		auth = service.NewAuthService(users, credentials, nil, validate, logr, authConfig)
	}

	exports := service.NewExportService(materialRepo, nil, nil, logr)

	graph, err := handler.NewGraphQLHandler(authors)
	if err != nil {
		logr.Fatal("failed to build graphql schema", zap.Error(err))
	}

	r := router.New(router.Dependencies{
		Config:        cfg,
		Logger:        logr,
		Metrics:       metrics,
		Authenticator: auth,
		Auth:          handler.NewAuthHandler(auth),
		Users:         handler.NewUserHandler(users),
		Authors:       handler.NewAuthorHandler(authors),
		Materials:     handler.NewMaterialHandler(materials, exports),
		GraphQL:       graph,
		Health:        handler.NewMetricsHandler(metrics, db),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newLoginThrottle returns nil when throttling is disabled or Redis is unreachable.
func newLoginThrottle(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.LoginThrottleService {
	if !cfg.LoginThrottle.Enabled {
		return nil
	}
	client, err := cache.NewRedis(context.Background(), cfg.Redis, 3*time.Second)
	if err != nil {
		logr.Warn("redis unavailable, login throttling disabled", zap.Error(err))
		return nil
	}
	return service.NewLoginThrottleService(
		repository.NewLoginAttemptRepository(client),
		service.LoginThrottleConfig{MaxAttempts: cfg.LoginThrottle.MaxAttempts, Window: cfg.LoginThrottle.Window},
		metrics,
		logr,
	)
}
