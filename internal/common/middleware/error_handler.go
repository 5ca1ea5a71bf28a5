package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/common/logger"
)

// ErrorHandler recovers panics and renders them through the standard
// error envelope.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := getRequestID(c)

		logger.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("stack", string(debug.Stack())).
			Msgf("Panic recovered: %v", recovered)

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithRequestID(requestID)

		sendErrorResponse(c, appErr)
	})
}

// RequestID assigns an id to every request, honoring the inbound header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorResponse is the JSON envelope for failed requests.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestID(c)
	appErr.WithRequestID(requestID)

	statusCode := HTTPStatus(appErr)

	logError(appErr, c, statusCode)

	c.JSON(statusCode, ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
	})
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest,
		errors.ErrCodeInvalidTransition, errors.ErrCodeNotEditable,
		errors.ErrCodeNotDeletable, errors.ErrCodeNotJoinable,
		errors.ErrCodeNotEnded, errors.ErrCodeWrongState,
		errors.ErrCodeNoParticipants:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGiveawayNotFound,
		errors.ErrCodeParticipationNotFound, errors.ErrCodeCompanyNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden, errors.ErrCodeNotOwner:
		return http.StatusForbidden
	case errors.ErrCodeConflict, errors.ErrCodeAlreadySelected, errors.ErrCodeAlreadyJoined:
		return http.StatusConflict
	case errors.ErrCodeProviderError:
		return http.StatusBadGateway
	case errors.ErrCodeDatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func logError(appErr *errors.AppError, c *gin.Context, status int) {
	event := logger.Info()
	switch {
	case appErr.IsInternal():
		event = logger.Error()
	case appErr.Code == errors.ErrCodeForbidden || appErr.Code == errors.ErrCodeNotOwner || appErr.Code == errors.ErrCodeUnauthorized:
		event = logger.Warn()
	}

	event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Int("status", status)

	if appErr.Cause != nil {
		event.Err(appErr.Cause)
	}
	if userID := CurrentUserID(c); userID != "" {
		event.Str("user_id", userID)
	}

	event.Msg(appErr.Message)
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}

// AbortWithError renders an application error and stops the handler
// chain. Non-AppError values become internal errors.
func AbortWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
	}
	c.Abort()
	sendErrorResponse(c, appErr)
}
