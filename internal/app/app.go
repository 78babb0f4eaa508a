package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/chitragar/portfolio-core/internal/config"
	"github.com/chitragar/portfolio-core/internal/database"
	"github.com/chitragar/portfolio-core/internal/middleware"
	"github.com/chitragar/portfolio-core/internal/pkg/jwt"
	"github.com/chitragar/portfolio-core/internal/pkg/originhash"
	pkgredis "github.com/chitragar/portfolio-core/internal/pkg/redis"
	"github.com/chitragar/portfolio-core/internal/pkg/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
}

// New initializes the application: config → DB → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	jwt.SetSecret(cfg.JWTSecret)
	originhash.SetSalt(cfg.IPSalt)
	response.SetLogger(logger)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// Redis is optional; without it rate limiting is per-process only.
	var rc *pkgredis.Client
	if cfg.RedisEnabled() {
		rc, err = pkgredis.Connect(cfg.RedisURL())
		if err != nil {
			logger.Warn("redis unavailable, rate limits degrade to local windows", zap.Error(err))
			rc = nil
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && cfg.IsProduction() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := originHost(origin)
			for _, pattern := range patterns {
				if originAllowed(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	app := &App{cfg: cfg, router: router, db: db, logger: logger}
	app.registerRoutes(rc)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }
