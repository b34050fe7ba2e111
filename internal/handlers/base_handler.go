package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/services"
	"github.com/fitvs/coaching-service/internal/utils"
)

type ErrorResponse = models.ErrorResponse
type SuccessResponse = models.SuccessResponse

// BaseHandler carries the logging helpers shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, message string) {
	utils.GetLogger(c, h.logger).Info(message,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"user_id", c.GetString("user_id"))
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string) {
	utils.GetLogger(c, h.logger).Error(message,
		"error", err,
		"path", c.FullPath(),
		"user_id", c.GetString("user_id"))
}

// ===== ERROR HANDLING =====

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Map service errors to HTTP status codes
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		var details interface{} = err.Error()
		if fields := services.ValidationDetails(err); len(fields) > 0 {
			details = fields
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: details,
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// caller returns the authenticated identity, replying 401 when it is absent
func (h *BaseHandler) caller(c *gin.Context) (models.Identity, bool) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return models.Identity{}, false
	}
	return identity, true
}
