package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/acervo-api/internal/handler"
	"github.com/noah-isme/acervo-api/internal/middleware"
	"github.com/noah-isme/acervo-api/internal/service"
	"github.com/noah-isme/acervo-api/pkg/config"
	"github.com/noah-isme/acervo-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/acervo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/acervo-api/pkg/middleware/requestid"
)

// Dependencies groups everything the HTTP surface needs.
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *service.MetricsService
	Authenticator middleware.Authenticator

	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Authors   *handler.AuthorHandler
	Materials *handler.MaterialHandler
	GraphQL   *handler.GraphQLHandler
	Health    *handler.MetricsHandler
}

// New builds the gin engine with every route registered.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{Env: config.EnvDevelopment}
	}
	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	if deps.Health != nil {
		r.GET("/health", deps.Health.Health)
		r.GET("/ready", deps.Health.Ready)
		if deps.Metrics != nil && cfg.Features.Metrics {
			r.GET("/metrics", deps.Health.Prometheus)
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)

	secured := r.Group("/")
	secured.Use(middleware.JWT(deps.Authenticator))

	users := secured.Group("/usuario")
	users.GET("", deps.Users.List)
	users.GET("/me", deps.Users.Me)
	users.GET("/:id", deps.Users.Get)
	users.PATCH("/:id", deps.Users.Update)
	users.DELETE("/:id", deps.Users.Delete)

	authors := secured.Group("/autor")
	authors.GET("", deps.Authors.List)
	authors.POST("/pessoa", deps.Authors.CreatePerson)
	authors.POST("/instituicao", deps.Authors.CreateInstitution)
	authors.GET("/:id", deps.Authors.Get)
	authors.PATCH("/:id", deps.Authors.Update)
	authors.DELETE("/:id", deps.Authors.Delete)

	materials := secured.Group("/material")
	materials.GET("", deps.Materials.List)
	materials.GET("/export", deps.Materials.Export)
	materials.POST("/livro", deps.Materials.CreateBook)
	materials.POST("/artigo", deps.Materials.CreateArticle)
	materials.POST("/video", deps.Materials.CreateVideo)
	materials.GET("/:id", deps.Materials.Get)
	materials.PATCH("/:id", deps.Materials.Update)
	materials.DELETE("/:id", deps.Materials.Delete)

	if deps.GraphQL != nil && cfg.Features.GraphQL {
		secured.POST("/graphql", deps.GraphQL.Serve)
		secured.GET("/graphql", deps.GraphQL.Serve)
	}

	return r
}
