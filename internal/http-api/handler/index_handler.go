package handler

import (
	"net/http"

	"locallibrary/internal/http-api/dto"
	"locallibrary/internal/http-api/middleware"
	"locallibrary/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type IndexHandler struct {
	svc service.CatalogService
}

func NewIndexHandler(svc service.CatalogService) *IndexHandler {
	return &IndexHandler{svc: svc}
}

// Index serves the home page counts. Visits are counted per signed-in user,
// or per client IP for anonymous callers.
func (h *IndexHandler) Index(c *gin.Context) {
	visitor := "ip:" + c.ClientIP()
	if actor := middleware.ActorFrom(c); actor.Authenticated() {
		visitor = "user:" + actor.UserID
	}

	stats, err := h.svc.Index(c.Request.Context(), visitor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromIndexStats(stats))
}
