package api

import (
	"errors"
	"net/http"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// RespondError maps engine error kinds to stable HTTP responses.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, apperr.ErrAlreadyBooked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "already booked for this session"})
	case errors.Is(err, apperr.ErrAlreadyDeducted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "credit already deducted"})
	case errors.Is(err, apperr.ErrNoCreditsRemaining):
		c.JSON(http.StatusPaymentRequired, ErrorResponse{Error: "no credits remaining"})
	case errors.Is(err, apperr.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
