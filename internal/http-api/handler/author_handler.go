package handler

import (
	"net/http"

	"locallibrary/internal/http-api/dto"
	"locallibrary/internal/http-api/middleware"
	"locallibrary/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthorHandler struct {
	svc service.AuthorService
}

func NewAuthorHandler(svc service.AuthorService) *AuthorHandler {
	return &AuthorHandler{svc: svc}
}

func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", guard, h.Create)
	rg.PUT("/:id", guard, h.Update)
	rg.DELETE("/:id", guard, h.Delete)
}

// List serves GET /authors. Anonymous callers get 401 from the service.
func (h *AuthorHandler) List(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	res, err := h.svc.List(c.Request.Context(), middleware.ActorFrom(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPage(res, dto.FromAuthor))
}

func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAuthor(*a))
}

func (h *AuthorHandler) Create(c *gin.Context) {
	in, ok := bindAuthor(c)
	if !ok {
		return
	}
	a, err := h.svc.Create(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromAuthor(*a))
}

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	in, ok := bindAuthor(c)
	if !ok {
		return
	}
	a, err := h.svc.Update(c.Request.Context(), middleware.ActorFrom(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAuthor(*a))
}

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindAuthor(c *gin.Context) (service.AuthorInput, bool) {
	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return service.AuthorInput{}, false
	}
	in, err := req.ToInput()
	if err != nil {
		badRequest(c, err)
		return service.AuthorInput{}, false
	}
	return in, true
}
