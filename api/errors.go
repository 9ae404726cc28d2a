package api

import (
	"errors"
	"net/http"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError translates sentinel errors into HTTP status codes.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrSeatNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSeatConflict),
		errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPaymentNotCompleted):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrNotPaid),
		errors.Is(err, domain.ErrPaymentMissing),
		errors.Is(err, domain.ErrCannotCancelSucceeded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGatewayFailure):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
