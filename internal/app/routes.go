package app

import (
	"time"

	"github.com/chitragar/portfolio-core/internal/middleware"
	"github.com/chitragar/portfolio-core/internal/modules/album"
	"github.com/chitragar/portfolio-core/internal/modules/auth"
	"github.com/chitragar/portfolio-core/internal/modules/feedback"
	"github.com/chitragar/portfolio-core/internal/modules/newsletter"
	"github.com/chitragar/portfolio-core/internal/pkg/mail"
	"github.com/chitragar/portfolio-core/internal/pkg/ratelimit"
	pkgredis "github.com/chitragar/portfolio-core/internal/pkg/redis"
	"github.com/chitragar/portfolio-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const throttleWindow = 15 * time.Minute

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	cfg := a.cfg

	authMW := middleware.Auth(db)
	limiter := ratelimit.New(rc, "pc:rate")

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	mailer := mail.New(mail.Config{
		Enable:    cfg.Mail.Enable,
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		User:      cfg.Mail.User,
		Pass:      cfg.Mail.Pass,
		From:      cfg.Mail.From,
		ReplyTo:   cfg.Mail.ReplyTo,
		UseResend: cfg.Mail.ResendKey != "",
		ResendKey: cfg.Mail.ResendKey,
	})

	v1 := r.Group("/api/v1")

	feedbackSvc := feedback.NewService(db, nil, a.logger)
	feedback.NewHandler(feedbackSvc).RegisterRoutes(v1, authMW,
		middleware.Throttle(limiter, "feedback", 5, throttleWindow))

	album.NewHandler(album.NewService(db)).RegisterRoutes(v1, authMW)

	newsletterSvc := newsletter.NewService(db, mailer, cfg.SiteURL, a.logger)
	newsletter.NewHandler(newsletterSvc).RegisterRoutes(v1, authMW,
		middleware.Throttle(limiter, "newsletter", 3, throttleWindow))

	authSvc := auth.NewService(db, mailer, cfg.IsAdminEmail, a.logger)
	auth.NewHandler(authSvc).RegisterRoutes(v1, authMW,
		middleware.Throttle(limiter, "auth", 5, throttleWindow))
}
