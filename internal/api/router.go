package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/devconnector/profile-api/docs"
	"github.com/devconnector/profile-api/internal/api/handler"
	"github.com/devconnector/profile-api/internal/api/middleware"
	"github.com/devconnector/profile-api/internal/core/service"
	"github.com/devconnector/profile-api/internal/infrastructure/config"
	mongorepo "github.com/devconnector/profile-api/internal/infrastructure/db/mongo"
	redcache "github.com/devconnector/profile-api/internal/infrastructure/db/redis"
	"github.com/devconnector/profile-api/internal/infrastructure/http/handlers"
	"github.com/devconnector/profile-api/internal/infrastructure/queue"
	"github.com/devconnector/profile-api/internal/pkg/token"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the audit dispatcher, which the caller must Start.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("profileapi"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	profileRepo := mongorepo.NewProfileRepository(db)
	eventRepo := mongorepo.NewEventRepository(db)
	cache := redcache.NewProfileCache(rdb, log)

	eventService := service.NewEventService(eventRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, eventService, log)

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, dispatcher, log)
	profileService := service.NewProfileService(profileRepo, userRepo, cache, dispatcher, service.Options{
		SkillsSplit:   service.SkillsSplitMode(cfg.SkillsSplit),
		LegacyRemoval: cfg.LegacyRemoval,
	}, log)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	authGuard := middleware.Auth(tokens)

	// --- User / auth routes ---
	e.POST("/api/users", authHandler.Register)
	e.POST("/api/auth", authHandler.Login)
	e.GET("/api/auth", authHandler.CurrentUser, authGuard)

	// --- Profile routes ---
	e.GET("/api/profile", profileHandler.List)
	e.GET("/api/profile/me", profileHandler.Me, authGuard)
	e.GET("/api/profile/user/:user_id", profileHandler.ByUser)
	e.POST("/api/profile", profileHandler.Upsert, authGuard)
	e.DELETE("/api/profile", profileHandler.DeleteAccount, authGuard)
	e.PUT("/api/profile/experience", profileHandler.AddExperience, authGuard)
	e.DELETE("/api/profile/experience/:exp_id", profileHandler.RemoveExperience, authGuard)
	e.PUT("/api/profile/education", profileHandler.AddEducation, authGuard)
	e.DELETE("/api/profile/education/:edu_id", profileHandler.RemoveEducation, authGuard)

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e, dispatcher
}
