package adaptor

import (
	"errors"
	"net/http"

	"story-booking/internal/usecase"
	"story-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps the usecase error taxonomy onto HTTP responses.
// Capacity conflicts carry the offending date and remaining room so the
// caller can adjust; retryable storage failures become 503 without leaking
// storage detail.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var capErr *usecase.CapacityError

	switch {
	case errors.As(err, &capErr):
		log.Warn(operation+" rejected - capacity exceeded",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, capErr.Error(), map[string]any{
			"date":      capErr.Date.Format("2006-01-02"),
			"remaining": capErr.Remaining,
		})

	case errors.Is(err, usecase.ErrStoryNotFound),
		errors.Is(err, usecase.ErrBookingNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrDurationMismatch),
		errors.Is(err, usecase.ErrTravellerCountMismatch),
		errors.Is(err, usecase.ErrInvalidPayment):
		log.Warn(operation+" rejected - invalid input",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrStoryNotBookable),
		errors.Is(err, usecase.ErrBookingNotCancellable):
		log.Warn(operation+" rejected - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrReservationFailed):
		log.Error(operation+" failed - storage error",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Reservation temporarily unavailable, please retry")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
