package v1

import (
	"net/http"

	"kohi-api/config"
	_ "kohi-api/docs"
	"kohi-api/internal/delivery/http/middleware"
	"kohi-api/internal/delivery/http/response"
	"kohi-api/internal/domain"
	"kohi-api/internal/usecase"
	"kohi-api/pkg/logger"
	"kohi-api/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	PostUC    domain.PostUsecase
	HealthUC  usecase.HealthUsecase
	// Redis is optional; without it the contact rate limit is off.
	Redis          *goredis.Client
	SecurityLogger *security.SecurityLogger
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Forwarding headers only count when they come from a configured proxy.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Log.Error("Invalid TRUSTED_PROXIES, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())
	// Engine-wide so unmatched admin paths are challenged too.
	r.Use(middleware.AdminGate(middleware.AdminGateConfig{
		Credentials: security.Credentials{Username: cfg.AdminUser, Password: cfg.AdminPass},
		Prefixes:    middleware.DefaultAdminPrefixes,
		Realm:       "kohi-admin",
		Logger:      deps.SecurityLogger,
	}))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found", nil)
	})

	api := r.Group("/api")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	limiter := middleware.RateLimitMiddleware(deps.Redis,
		middleware.ContactRateLimitConfig(cfg.ContactRateLimit, cfg.ContactRateWindowSeconds, deps.SecurityLogger))
	NewContactHandler(api, deps.ContactUC, limiter)
	NewPostHandler(api, deps.PostUC)

	// Admin routes, authenticated by the gate above
	admin := api.Group("/admin")
	{
		NewAdminPostHandler(admin, deps.PostUC)
		NewAdminMessageHandler(admin, deps.ContactUC)
	}

	return r
}
