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

type InstanceHandler struct {
	svc service.InstanceService
}

func NewInstanceHandler(svc service.InstanceService) *InstanceHandler {
	return &InstanceHandler{svc: svc}
}

func (h *InstanceHandler) RegisterRoutes(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", guard, h.Create)
	rg.PUT("/:id", guard, h.Update)
	rg.DELETE("/:id", guard, h.Delete)
}

func instanceConverter(now time.Time) func(models.BookInstance) dto.InstanceResponse {
	return func(inst models.BookInstance) dto.InstanceResponse {
		return dto.FromInstance(inst, now)
	}
}

// List serves GET /instances?page=&status=
func (h *InstanceHandler) List(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}

	var status *models.LoanStatus
	if s := c.Query("status"); s != "" {
		st, err := models.ParseLoanStatus(s)
		if err != nil {
			badRequest(c, err)
			return
		}
		status = &st
	}

	res, err := h.svc.List(c.Request.Context(), status, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPage(res, instanceConverter(time.Now())))
}

func (h *InstanceHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	inst, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromInstance(*inst, time.Now()))
}

func (h *InstanceHandler) Create(c *gin.Context) {
	var req dto.InstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inst, err := h.svc.Create(c.Request.Context(), middleware.ActorFrom(c), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromInstance(*inst, time.Now()))
}

func (h *InstanceHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	var req dto.InstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inst, err := h.svc.Update(c.Request.Context(), middleware.ActorFrom(c), id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromInstance(*inst, time.Now()))
}

func (h *InstanceHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
