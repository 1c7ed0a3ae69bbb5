package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-shop/internal/shoperrors"
	"auction-shop/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, shoperrors.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, shoperrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, shoperrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, shoperrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, shoperrors.ErrAuctionClosed):
		return http.StatusGone, "auction closed"
	case errors.Is(err, shoperrors.ErrNoBids):
		return http.StatusOK, "no bids found for auction"
	case errors.Is(err, shoperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
