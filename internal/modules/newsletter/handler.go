package newsletter

import (
	"errors"
	"strconv"

	"github.com/chitragar/portfolio-core/internal/pkg/originhash"
	"github.com/chitragar/portfolio-core/internal/pkg/pagination"
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
	g := rg.Group("/newsletter")

	g.POST("/subscribe", throttleMW, h.subscribe)
	g.GET("/unsubscribe", h.unsubscribe)
	g.POST("/unsubscribe", h.unsubscribe)
	g.GET("/stats", h.publicStats)

	a := g.Group("", authMW)
	a.GET("/subscribers", h.list)
	a.GET("/subscribers/stats", h.stats)
	a.PATCH("/subscribers/:id", h.update)
	a.DELETE("/subscribers/:id", h.remove)
}

func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "email is required")
		return
	}

	sub, err := h.svc.Subscribe(&dto, originhash.FromContext(c), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, errInvalidEmail):
			response.BadRequest(c, err.Error())
		case errors.Is(err, errAlreadySubscribed):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Created(c, gin.H{
		"success": true,
		"email":   sub.Email,
		"message": "Subscribed. Check your inbox for a welcome note.",
	})
}

func (h *Handler) unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			token = body.Token
		}
	}

	if err := h.svc.Unsubscribe(token); err != nil {
		if errors.Is(err, errTokenNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true, "message": "You have been unsubscribed."})
}

func (h *Handler) list(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	rows, pag, err := h.svc.List(pagination.FromContext(c), activeOnly)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, pag)
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.Stats()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) publicStats(c *gin.Context) {
	st, err := h.svc.PublicStats()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var dto UpdateSubscriberDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "is_active is required")
		return
	}

	sub, err := h.svc.SetActive(id, *dto.IsActive)
	if err != nil {
		if errors.Is(err, errSubscriberNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(id); err != nil {
		if errors.Is(err, errSubscriberNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
