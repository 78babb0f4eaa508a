package album

import (
	"errors"
	"strconv"

	"github.com/chitragar/portfolio-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/albums")
	g.GET("", h.listPublic)
	g.GET("/:id", h.getPublic)

	a := g.Group("", authMW)
	a.GET("/admin", h.listAdmin)
	a.POST("", h.create)
	a.PATCH("/:id", h.update)
	a.DELETE("/:id", h.delete)
	a.POST("/:id/photos", h.addPhoto)

	p := rg.Group("/photos", authMW)
	p.PATCH("/:id", h.updatePhoto)
	p.DELETE("/:id", h.deletePhoto)
	p.POST("/:id/promote-cover", h.promoteCover)
}

func (h *Handler) listPublic(c *gin.Context) {
	albums, err := h.svc.ListPublic()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, albums)
}

func (h *Handler) getPublic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.svc.GetPublic(id)
	if err != nil {
		if errors.Is(err, errAlbumNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) listAdmin(c *gin.Context) {
	albums, err := h.svc.ListAdmin()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, albums)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateAlbumDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "name is required")
		return
	}

	a, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, a)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var dto UpdateAlbumDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	a, err := h.svc.Update(id, &dto)
	if err != nil {
		if errors.Is(err, errAlbumNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(id); err != nil {
		if errors.Is(err, errAlbumNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) addPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var dto CreatePhotoDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "cdn_public_id and cdn_url are required")
		return
	}

	p, err := h.svc.AddPhoto(id, &dto)
	if err != nil {
		if errors.Is(err, errAlbumNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) updatePhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var dto UpdatePhotoDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.svc.UpdatePhoto(id, &dto)
	if err != nil {
		if errors.Is(err, errPhotoNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) deletePhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.DeletePhoto(id); err != nil {
		if errors.Is(err, errPhotoNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) promoteCover(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.svc.PromoteCover(id)
	if err != nil {
		switch {
		case errors.Is(err, errPhotoNotFound), errors.Is(err, errAlbumNotFound):
			response.NotFoundMsg(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, a)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
