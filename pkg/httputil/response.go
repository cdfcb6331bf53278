package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/scheduler-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details interface{}      `json:"details,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response for a created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	RespondWithErrorDetails(c, err, nil)
}

// RespondWithErrorDetails sends an error response carrying extra
// payload, e.g. the conflicting appointments of a scheduling conflict.
func RespondWithErrorDetails(c *gin.Context, err error, details interface{}) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}

	c.JSON(httpStatus(appErr.Code), Response{
		Success: false,
		Error: &Error{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrBadRequest:
		return http.StatusBadRequest
	case errors.ErrScheduleViolation, errors.ErrNoCoverage:
		return http.StatusUnprocessableEntity
	case errors.ErrSchedulingConflict, errors.ErrConfirmationRequired:
		return http.StatusConflict
	case errors.ErrCommitFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
