package auth

import (
	"errors"

	"github.com/chitragar/portfolio-core/internal/middleware"
	"github.com/chitragar/portfolio-core/internal/pkg/originhash"
	"github.com/chitragar/portfolio-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, throttleMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.POST("/otp", throttleMW, h.requestOTP)
	g.POST("/verify", throttleMW, h.verifyOTP)

	a := g.Group("", authMW)
	a.POST("/logout", h.logout)
	a.GET("/me", h.me)
}

func (h *Handler) requestOTP(c *gin.Context) {
	var dto RequestOTPDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "email is required")
		return
	}

	err := h.svc.RequestOTP(dto.Email)
	if err != nil && !errors.Is(err, errNotAdminEmail) {
		response.InternalError(c, err)
		return
	}

	// Same reply whether or not the email is on the allow-list, so the
	// endpoint cannot be used to probe for admin addresses.
	response.OK(c, gin.H{
		"success": true,
		"message": "If that address is registered, a sign-in code is on its way.",
	})
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var dto VerifyOTPDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "email and code are required")
		return
	}

	login, err := h.svc.VerifyOTP(dto.Email, dto.Code, originhash.ClientIP(c), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errOTPInvalid) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, login)
}

func (h *Handler) logout(c *gin.Context) {
	err := h.svc.Logout(middleware.CurrentAdminEmail(c), middleware.CurrentSessionID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) me(c *gin.Context) {
	response.OK(c, gin.H{"email": middleware.CurrentAdminEmail(c)})
}
