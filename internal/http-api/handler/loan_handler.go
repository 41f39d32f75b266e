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

type LoanHandler struct {
	svc service.LoanService
	now func() time.Time
}

func NewLoanHandler(svc service.LoanService) *LoanHandler {
	return &LoanHandler{svc: svc, now: time.Now}
}

// RegisterRoutes mounts the loan endpoints on the root group. Capability
// checks happen in the service so that a denied renewal never reads the copy.
func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/my-loans", h.MyLoans)
	rg.GET("/all-loans", h.AllLoans)
	rg.GET("/instances/:id/renew", h.RenewalForm)
	rg.POST("/instances/:id/renew", h.Renew)
	rg.POST("/instances/:id/checkout", h.Checkout)
	rg.POST("/instances/:id/return", h.Return)
}

func (h *LoanHandler) MyLoans(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	res, err := h.svc.MyLoans(c.Request.Context(), middleware.ActorFrom(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPage(res, instanceConverter(h.now())))
}

func (h *LoanHandler) AllLoans(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	res, err := h.svc.AllLoans(c.Request.Context(), middleware.ActorFrom(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPage(res, instanceConverter(h.now())))
}

func (h *LoanHandler) RenewalForm(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	form, err := h.svc.RenewalForm(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRenewalForm(form, h.now()))
}

// Renew serves POST /instances/:id/renew. On success the client is sent to
// the all-loans listing.
func (h *LoanHandler) Renew(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	// answer before looking at the id or the body
	if err := actor.Require(models.CanMarkReturned); err != nil {
		respondError(c, err)
		return
	}

	id, ok := uuidParam(c)
	if !ok {
		return
	}
	var req dto.RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	proposed, err := models.ParseDate(req.RenewalDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	inst, err := h.svc.Renew(c.Request.Context(), actor, id, proposed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RenewResponse{
		Instance:   dto.FromInstance(*inst, h.now()),
		RedirectTo: service.AllLoansRedirect,
	})
}

func (h *LoanHandler) Checkout(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	due, err := req.DueDate()
	if err != nil {
		badRequest(c, err)
		return
	}

	inst, err := h.svc.Checkout(c.Request.Context(), middleware.ActorFrom(c), id, req.BorrowerID, due)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromInstance(*inst, h.now()))
}

func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	inst, err := h.svc.MarkReturned(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromInstance(*inst, h.now()))
}
