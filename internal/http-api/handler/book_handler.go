package handler

import (
	"net/http"
	"time"

	"locallibrary/internal/http-api/dto"
	"locallibrary/internal/http-api/middleware"
	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", guard, h.Create)
	rg.PUT("/:id", guard, h.Update)
	rg.DELETE("/:id", guard, h.Delete)
}

// List serves GET /books?page=&title=
func (h *BookHandler) List(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}

	res, err := h.svc.List(c.Request.Context(), c.Query("title"), page)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, dto.FromPage(res, func(b models.Book) dto.BookResponse {
		return dto.FromBook(b, now)
	}))
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBook(*b, time.Now()))
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.svc.Create(c.Request.Context(), middleware.ActorFrom(c), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromBook(*b, time.Now()))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.svc.Update(c.Request.Context(), middleware.ActorFrom(c), id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBook(*b, time.Now()))
}

func (h *BookHandler) Delete(c *gin.Context) {
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
