package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"locallibrary/internal/http-api/dto"
	"locallibrary/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps service errors onto HTTP statuses. Unknown errors are
// attached to the context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ve.Message, Field: ve.Field, Value: ve.Value})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "permission denied"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: "request timed out"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

// pageParam reads ?page=. A missing value is page 1; anything that is not a
// positive integer is treated like a page that does not exist.
func pageParam(c *gin.Context) (int, bool) {
	p := c.Query("page")
	if p == "" {
		return 1, true
	}
	n, err := strconv.Atoi(p)
	if err != nil || n < 1 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "invalid page"})
		return 0, false
	}
	return n, true
}

// idParam reads a numeric path id; malformed ids are 404 like unknown ones.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return 0, false
	}
	return id, true
}

func uuidParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return uuid.Nil, false
	}
	return id, true
}
