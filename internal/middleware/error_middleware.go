package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/logger"
)

// errorStatus maps an error to its HTTP status and error code
func errorStatus(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidEmail),
		errors.Is(err, apperrors.ErrInvalidPassword):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.ErrorCodeAccountDisabled
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.NotFoundErrors...):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ConflictErrors...):
		return http.StatusConflict, dto.ErrorCodeConflict
	case errors.Is(err, apperrors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}

// HandleAPIError writes the error envelope for err. Unexpected errors are
// logged and answered with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status, code := errorStatus(err)

	message := apperrors.MessageOf(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestId", c.GetString(ContextRequestID)).
			Msg("Unhandled API error")
		message = "Internal server error"
	}

	errorDetail := dto.NewErrorDetail(code, message)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && len(custom.Details) > 0 {
		if field, ok := custom.Details["field"].(string); ok {
			errorDetail.WithField(field)
		}
		errorDetail.WithDetails(custom.Details)
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail))
}
