package feedback

import (
	"errors"
	"strconv"

	"github.com/chitragar/portfolio-core/internal/middleware"
	"github.com/chitragar/portfolio-core/internal/models"
	"github.com/chitragar/portfolio-core/internal/pkg/originhash"
	"github.com/chitragar/portfolio-core/internal/pkg/pagination"
	"github.com/chitragar/portfolio-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *Service
	throttle gin.HandlerFunc
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, throttleMW gin.HandlerFunc) {
	h.throttle = throttleMW
	g := rg.Group("/feedback")

	g.GET("", h.listPublic)
	g.POST("", h.create)
	g.POST("/reactions", h.toggleReaction)
	g.GET("/reactions", h.reactionCounts)

	a := g.Group("/admin", authMW)
	a.GET("", h.listAdmin)
	a.GET("/:id/log", h.auditLog)
	a.PATCH("/:id", h.moderate)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateFeedbackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "message is required")
		return
	}
	if err := h.svc.ValidateCreate(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Malformed submissions must not consume rate-limit quota, so the
	// window is only hit after validation passes.
	if h.throttle != nil {
		h.throttle(c)
		if c.IsAborted() {
			return
		}
	}

	f, err := h.svc.Create(&dto, originhash.FromContext(c), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, errMessageLength), errors.Is(err, errInvalidRating):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Created(c, gin.H{
		"success": true,
		"id":      f.ID,
		"message": "Thanks for the feedback! It will appear once reviewed.",
	})
}

func (h *Handler) listPublic(c *gin.Context) {
	q := PublicQuery{
		Limit:        parseIntOr(c.DefaultQuery("limit", "20"), 20),
		Offset:       parseIntOr(c.DefaultQuery("offset", "0"), 0),
		Type:         c.Query("type"),
		FeaturedOnly: c.Query("featured") == "true",
	}

	items, hasMore, err := h.svc.ListPublic(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"feedback": items, "hasMore": hasMore})
}

func (h *Handler) listAdmin(c *gin.Context) {
	var status *models.FeedbackStatus
	if raw := c.Query("status"); raw != "" {
		s := models.FeedbackStatus(raw)
		status = &s
	}

	rows, pag, err := h.svc.ListAdmin(pagination.FromContext(c), status)
	if err != nil {
		if errors.Is(err, errInvalidStatus) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	counts, err := h.svc.CountByStatus()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"data":       rows,
		"counts":     counts,
		"pagination": pag,
	})
}

func (h *Handler) moderate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var dto ModerateFeedbackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	f, err := h.svc.Moderate(id, &dto, middleware.CurrentAdminEmail(c))
	if err != nil {
		switch {
		case errors.Is(err, errFeedbackNotFound):
			response.NotFoundMsg(c, err.Error())
		case errors.Is(err, errInvalidStatus):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, f)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(id, middleware.CurrentAdminEmail(c)); err != nil {
		if errors.Is(err, errFeedbackNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) auditLog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rows, err := h.svc.AuditLog(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) toggleReaction(c *gin.Context) {
	var dto ToggleReactionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "feedback_id and reaction_type are required")
		return
	}

	action, err := h.svc.ToggleReaction(dto.FeedbackID, models.ReactionType(dto.ReactionType), originhash.FromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, errFeedbackNotFound):
			response.NotFoundMsg(c, err.Error())
		case errors.Is(err, errInvalidReaction):
			response.BadRequest(c, err.Error())
		case errors.Is(err, errFeedbackNotPublic):
			// Unpublished entries are indistinguishable from absent ones.
			response.NotFoundMsg(c, errFeedbackNotFound.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	message := "Reaction added"
	if action == "removed" {
		message = "Reaction removed"
	}
	response.OK(c, gin.H{"success": true, "action": action, "message": message})
}

func (h *Handler) reactionCounts(c *gin.Context) {
	id := parseIntOr(c.Query("feedback_id"), 0)
	if id <= 0 {
		response.BadRequest(c, "feedback_id is required")
		return
	}

	counts, err := h.svc.ReactionCounts(uint(id))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"reactions": counts})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
